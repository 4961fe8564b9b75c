package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
)

// TimeService enforces the time-entry invariants: both instants set, start
// strictly before end, user and project existing, and no overlap with any
// other non-deleted entry of the same user. Intervals are closed on both
// ends, so entries that merely touch at a boundary conflict.
type TimeService struct {
	repos repomanager.RepositoryManager
}

func NewTimeService(m repomanager.RepositoryManager) *TimeService {
	return &TimeService{repos: m}
}

func (s *TimeService) Add(ctx context.Context, entry *models.TimeEntry) (*models.TimeEntry, error) {
	if err := s.checkRequired(entry); err != nil {
		return nil, err
	}
	if err := s.checkUserExists(ctx, entry.UserID); err != nil {
		return nil, err
	}
	if err := s.checkProjectExists(ctx, entry.ProjectID); err != nil {
		return nil, err
	}

	repo := s.repos.Times()

	if err := s.checkNoOverlap(ctx, entry, 0); err != nil {
		return nil, err
	}

	result, err := repo.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	if _, err := repo.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// FindAllByProject returns the non-deleted entries of a project. No entries
// is reported as not found rather than an empty list.
func (s *TimeService) FindAllByProject(ctx context.Context, projectID int64) ([]*models.TimeEntry, error) {
	repo := s.repos.Times()

	entries, err := repo.Select(ctx, func(e *models.TimeEntry) bool { return e.ProjectID == projectID })
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no time entries for project %d", common.ErrNotFound, projectID)
	}
	return entries, nil
}

// Update re-runs the full validation on the incoming values and applies them
// onto the stored entry. The overlap check skips the entry's own id.
func (s *TimeService) Update(ctx context.Context, entry *models.TimeEntry) (*models.TimeEntry, error) {
	repo := s.repos.Times()

	stored, err := repo.SelectFirst(ctx, func(e *models.TimeEntry) bool { return e.ID == entry.ID })
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: time entry %d to update", common.ErrNotFound, entry.ID)
		}
		return nil, err
	}

	if err := s.checkRequired(entry); err != nil {
		return nil, err
	}

	stored.StartedAt = entry.StartedAt
	stored.EndedAt = entry.EndedAt
	stored.UserID = entry.UserID
	stored.ProjectID = entry.ProjectID

	if err := s.checkUserExists(ctx, entry.UserID); err != nil {
		return nil, err
	}
	if err := s.checkProjectExists(ctx, entry.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkNoOverlap(ctx, entry, entry.ID); err != nil {
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

func (s *TimeService) checkRequired(entry *models.TimeEntry) error {
	if entry == nil || entry.StartedAt.IsZero() || entry.EndedAt.IsZero() || entry.ProjectID == 0 || entry.UserID == 0 {
		return fmt.Errorf("%w: start, end, user and project must be filled in", common.ErrRequiredField)
	}
	if !entry.StartedAt.Before(entry.EndedAt) {
		return fmt.Errorf("%w: end must be after start", common.ErrRequiredField)
	}
	return nil
}

func (s *TimeService) checkUserExists(ctx context.Context, userID int64) error {
	_, err := s.repos.Users().SelectFirst(ctx, func(u *models.User) bool { return u.ID == userID })
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: user %d", common.ErrNotFound, userID)
	}
	return err
}

func (s *TimeService) checkProjectExists(ctx context.Context, projectID int64) error {
	_, err := s.repos.Projects().SelectFirst(ctx, func(p *models.Project) bool { return p.ID == projectID })
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: project %d", common.ErrNotFound, projectID)
	}
	return err
}

// checkNoOverlap scans every non-deleted entry of the same user, skipping
// excludeID on update, and fails with the duplicate kind on any conflict.
func (s *TimeService) checkNoOverlap(ctx context.Context, entry *models.TimeEntry, excludeID int64) error {
	conflicts, err := s.repos.Times().Select(ctx, func(e *models.TimeEntry) bool {
		if e.UserID != entry.UserID || e.ID == excludeID {
			return false
		}
		return overlaps(e, entry)
	})
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("%w: interval conflicts with another entry of this user", common.ErrDuplicate)
	}
	return nil
}

// overlaps reports whether two closed intervals conflict: the existing
// entry's start or end falls inside the new interval (boundaries included),
// or the existing interval fully contains the new one.
func overlaps(existing, incoming *models.TimeEntry) bool {
	startInside := !existing.StartedAt.After(incoming.StartedAt) && !incoming.StartedAt.After(existing.EndedAt)
	endInside := !existing.StartedAt.After(incoming.EndedAt) && !incoming.EndedAt.After(existing.EndedAt)
	contains := !incoming.StartedAt.After(existing.StartedAt) && !existing.EndedAt.After(incoming.EndedAt)
	return startInside || endInside || contains
}
