package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vibbra/hourglass/internal/logging"
	"github.com/vibbra/hourglass/internal/metrics"
	"github.com/vibbra/hourglass/internal/server/services"
)

// Deps collects everything the router needs.
type Deps struct {
	Logger    logging.Logger
	Recorder  metrics.Recorder
	Registry  *prometheus.Registry
	SecretKey []byte

	Auth     *services.AuthService
	Users    *services.UserService
	Projects *services.ProjectService
	Times    *services.TimeService
}

// NewRouter builds the full route tree. Everything under /api/v1 except
// authentication and user signup requires a bearer token.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth)
	userHandler := NewUserHandler(d.Users)
	projectHandler := NewProjectHandler(d.Projects)
	timeHandler := NewTimeHandler(d.Times)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(d.Logger, d.Recorder))
	r.Use(Recovery(d.Logger))

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/authenticate", authHandler.Authenticate)
		r.Post("/users", userHandler.Add)

		r.Group(func(r chi.Router) {
			r.Use(Auth(d.SecretKey))

			r.Get("/users/{userID}", userHandler.Find)
			r.Put("/users/{userID}", userHandler.Update)

			r.Post("/projects", projectHandler.Add)
			r.Get("/projects", projectHandler.FindAll)
			r.Get("/projects/{projectID}", projectHandler.Find)
			r.Put("/projects/{projectID}", projectHandler.Update)

			r.Post("/times", timeHandler.Add)
			r.Get("/times/{projectID}", timeHandler.FindAllByProject)
			r.Put("/times/{timeID}", timeHandler.Update)
		})
	})

	return r
}
