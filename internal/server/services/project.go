package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
)

// ProjectService enforces the project invariants: title and description
// filled in, title unique among non-deleted projects, and every requested
// member id resolvable to an existing user.
type ProjectService struct {
	repos repomanager.RepositoryManager
}

func NewProjectService(m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{repos: m}
}

func (s *ProjectService) Add(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project == nil || project.Title == "" || project.Description == "" {
		return nil, fmt.Errorf("%w: title and description must be filled in", common.ErrRequiredField)
	}

	repo := s.repos.Projects()

	if err := s.checkTitleFree(ctx, repo, project.Title, 0); err != nil {
		return nil, err
	}

	members, err := s.resolveMembers(ctx, project)
	if err != nil {
		return nil, err
	}
	project.Users = members

	result, err := repo.Insert(ctx, project)
	if err != nil {
		return nil, err
	}
	if _, err := repo.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ProjectService) Find(ctx context.Context, id int64) (*models.Project, error) {
	repo := s.repos.Projects()

	project, err := repo.SelectFirst(ctx, func(p *models.Project) bool { return p.ID == id }, repositories.RelationUsers)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return project, nil
}

// FindAll returns every non-deleted project with its membership loaded.
// An empty result set is reported as not found rather than an empty list.
func (s *ProjectService) FindAll(ctx context.Context) ([]*models.Project, error) {
	repo := s.repos.Projects()

	projects, err := repo.Select(ctx, nil, repositories.RelationUsers)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: no projects", common.ErrNotFound)
	}
	return projects, nil
}

// Update loads the stored project, applies title, description and the freshly
// resolved membership, and commits. Membership is replaced with the incoming
// set, not merged.
func (s *ProjectService) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	repo := s.repos.Projects()

	stored, err := repo.SelectFirst(ctx, func(p *models.Project) bool { return p.ID == project.ID }, repositories.RelationUsers)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %d to update", common.ErrNotFound, project.ID)
		}
		return nil, err
	}

	if project.Title == "" || project.Description == "" {
		return nil, fmt.Errorf("%w: title and description must be filled in", common.ErrRequiredField)
	}

	stored.Title = project.Title
	stored.Description = project.Description

	members, err := s.resolveMembers(ctx, project)
	if err != nil {
		return nil, err
	}
	stored.Users = members

	if err := s.checkTitleFree(ctx, repo, project.Title, project.ID); err != nil {
		return nil, err
	}

	if err := repo.Update(ctx, stored); err != nil {
		return nil, err
	}
	if _, err := repo.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// resolveMembers translates the requested member ids into existing user
// records with a single batched read. If any id cannot be resolved the whole
// operation fails.
func (s *ProjectService) resolveMembers(ctx context.Context, project *models.Project) ([]*models.User, error) {
	requested := make(map[int64]struct{}, len(project.Users))
	for _, u := range project.Users {
		requested[u.ID] = struct{}{}
	}

	users, err := s.repos.Users().Select(ctx, func(u *models.User) bool {
		_, ok := requested[u.ID]
		return ok
	})
	if err != nil {
		return nil, err
	}
	if len(users) < len(project.Users) {
		return nil, fmt.Errorf("%w: one or more member users", common.ErrNotFound)
	}
	return users, nil
}

func (s *ProjectService) checkTitleFree(ctx context.Context, repo repositories.Repository[*models.Project], title string, excludeID int64) error {
	matches, err := repo.Select(ctx, func(p *models.Project) bool {
		return p.Title == title && p.ID != excludeID
	})
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return fmt.Errorf("%w: title already registered", common.ErrDuplicate)
	}
	return nil
}
