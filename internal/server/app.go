// Package server initializes and runs the application server. It wires the
// configuration, storage, validation services and the HTTP API together and
// handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vibbra/hourglass/internal/logging"
	"github.com/vibbra/hourglass/internal/metrics"
	"github.com/vibbra/hourglass/internal/server/config"
	"github.com/vibbra/hourglass/internal/server/httpapi"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
	"github.com/vibbra/hourglass/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	handler http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON()

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	registry := prometheus.NewRegistry()

	handler := httpapi.NewRouter(httpapi.Deps{
		Logger:    logger,
		Recorder:  metrics.NewCollector(registry),
		Registry:  registry,
		SecretKey: []byte(cfg.SecretKey),
		Auth:      services.NewAuthService(rm, cfg.SecretKey, cfg.TokenValidityDuration),
		Users:     services.NewUserService(rm),
		Projects:  services.NewProjectService(rm),
		Times:     services.NewTimeService(rm),
	})

	return &App{config: cfg, logger: logger, repos: rm, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http server shutdown", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server failed", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	if err := app.repos.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err.Error())
	}
	app.logger.Info(ctx, "app stopped")
}
