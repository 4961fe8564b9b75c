package repomanager

import (
	"context"

	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories"
	"github.com/vibbra/hourglass/internal/server/repositories/memory"
)

// InMemoryRepositoryManager backs the repositories with process memory.
// Unlike the Postgres manager it hands out the same stores on every call,
// since the data lives in the repositories themselves. Used by tests.
type InMemoryRepositoryManager struct {
	users    *memory.Repository[*models.User]
	projects *memory.Repository[*models.Project]
	times    *memory.Repository[*models.TimeEntry]
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:    memory.New[*models.User](),
		projects: memory.New[*models.Project](),
		times:    memory.New[*models.TimeEntry](),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Users() repositories.Repository[*models.User] {
	return m.users
}

func (m *InMemoryRepositoryManager) Projects() repositories.Repository[*models.Project] {
	return m.projects
}

func (m *InMemoryRepositoryManager) Times() repositories.Repository[*models.TimeEntry] {
	return m.times
}

func (m *InMemoryRepositoryManager) Close() error { return nil }
