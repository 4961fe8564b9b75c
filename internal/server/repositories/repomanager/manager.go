// Package repomanager wires the per-entity repositories to a backing store.
package repomanager

import (
	"context"

	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories"
)

// RepositoryManager hands out repositories. Each accessor returns a fresh
// repository so every logical operation owns its own unit of work.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() repositories.Repository[*models.User]
	Projects() repositories.Repository[*models.Project]
	Times() repositories.Repository[*models.TimeEntry]
	Close() error
}
