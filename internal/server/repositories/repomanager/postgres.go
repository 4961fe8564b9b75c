package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/vibbra/hourglass/internal/server/migrations"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories"
	"github.com/vibbra/hourglass/internal/server/repositories/postgres"
)

type PostgresRepositoryManager struct {
	db *sql.DB
}

func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return &PostgresRepositoryManager{db: db}, nil
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Users() repositories.Repository[*models.User] {
	return postgres.New[*models.User](m.db, postgres.UserMapper{})
}

func (m *PostgresRepositoryManager) Projects() repositories.Repository[*models.Project] {
	return postgres.New[*models.Project](m.db, postgres.ProjectMapper{})
}

func (m *PostgresRepositoryManager) Times() repositories.Repository[*models.TimeEntry] {
	return postgres.New[*models.TimeEntry](m.db, postgres.TimeEntryMapper{})
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
