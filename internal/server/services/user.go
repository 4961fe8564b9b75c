// Package services contains the validated domain operations. Each service
// runs every check against the repository port before staging a write, so a
// failed validation never leaves a partial write behind.
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

// UserService enforces the user invariants: all four scalar fields filled in,
// email and login unique among non-deleted users.
type UserService struct {
	repos repomanager.RepositoryManager
}

func NewUserService(m repomanager.RepositoryManager) *UserService {
	return &UserService{repos: m}
}

func (s *UserService) Add(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || user.Email == "" || user.Login == "" || user.Name == "" || user.Password == "" {
		return nil, fmt.Errorf("%w: name, email, login and password must be filled in", common.ErrRequiredField)
	}

	repo := s.repos.Users()

	if err := s.checkEmailFree(ctx, repo, user.Email, 0); err != nil {
		return nil, err
	}
	if err := s.checkLoginFree(ctx, repo, user.Login, 0); err != nil {
		return nil, err
	}

	result, err := repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := repo.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *UserService) Find(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repos.Users()

	user, err := repo.SelectFirst(ctx, func(u *models.User) bool { return u.ID == id })
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

// Update applies the incoming scalar fields onto the stored record. The
// uniqueness checks exclude the user's own id, so resubmitting unchanged
// values is not a duplicate.
func (s *UserService) Update(ctx context.Context, user *models.User) (*models.User, error) {
	repo := s.repos.Users()

	stored, err := repo.SelectFirst(ctx, func(u *models.User) bool { return u.ID == user.ID })
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d to update", common.ErrNotFound, user.ID)
		}
		return nil, err
	}

	if user.Email == "" || user.Login == "" || user.Name == "" || user.Password == "" {
		return nil, fmt.Errorf("%w: name, email, login and password must be filled in", common.ErrRequiredField)
	}

	stored.Name = user.Name
	stored.Email = user.Email
	stored.Login = user.Login
	stored.Password = user.Password

	if err := s.checkEmailFree(ctx, repo, user.Email, user.ID); err != nil {
		return nil, err
	}
	if err := s.checkLoginFree(ctx, repo, user.Login, user.ID); err != nil {
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

// checkEmailFree fails with the duplicate kind when a non-deleted user other
// than excludeID already holds the email.
func (s *UserService) checkEmailFree(ctx context.Context, repo repositories.Repository[*models.User], email string, excludeID int64) error {
	matches, err := repo.Select(ctx, func(u *models.User) bool {
		return u.Email == email && u.ID != excludeID
	})
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return fmt.Errorf("%w: e-mail already registered", common.ErrDuplicate)
	}
	return nil
}

func (s *UserService) checkLoginFree(ctx context.Context, repo repositories.Repository[*models.User], login string, excludeID int64) error {
	matches, err := repo.Select(ctx, func(u *models.User) bool {
		return u.Login == login && u.ID != excludeID
	})
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return fmt.Errorf("%w: login already registered", common.ErrDuplicate)
	}
	return nil
}
