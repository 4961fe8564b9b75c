package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
)

func newProject(title string, memberIDs ...int64) *models.Project {
	p := &models.Project{Title: title, Description: "a project"}
	for _, id := range memberIDs {
		p.Users = append(p.Users, &models.User{ID: id})
	}
	return p
}

// seedUsers registers n users and returns their ids.
func seedUsers(t *testing.T, m repomanager.RepositoryManager, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	s := NewUserService(m)

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		name := string(rune('A' + i))
		user, err := s.Add(ctx, newUser("User "+name, name+"@example.com", "user-"+name))
		if err != nil {
			t.Fatalf("seeding user: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

func TestProjectServiceAdd(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()
	ids := seedUsers(t, m, 2)
	s := NewProjectService(m)

	project, err := s.Add(ctx, newProject("Website", ids...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.ID == 0 {
		t.Error("expected an id to be assigned")
	}
	if len(project.Users) != 2 {
		t.Errorf("expected 2 resolved members, got %d", len(project.Users))
	}
	for _, u := range project.Users {
		if u.Email == "" {
			t.Error("members must be resolved to full user records")
		}
	}
}

func TestProjectServiceAddRequiredFields(t *testing.T) {
	ctx := context.Background()
	s := NewProjectService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, &models.Project{Title: "Website"}); !errors.Is(err, common.ErrRequiredField) {
		t.Errorf("expected ErrRequiredField without description, got %v", err)
	}
	if _, err := s.Add(ctx, &models.Project{Description: "a project"}); !errors.Is(err, common.ErrRequiredField) {
		t.Errorf("expected ErrRequiredField without title, got %v", err)
	}
}

func TestProjectServiceAddUnknownMember(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()
	ids := seedUsers(t, m, 1)
	s := NewProjectService(m)

	_, err := s.Add(ctx, newProject("Website", ids[0], ids[0]+100))
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown member, got %v", err)
	}

	// the failed add must not leave a project behind
	if _, err := s.FindAll(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected no projects after failed add, got %v", err)
	}
}

func TestProjectServiceAddDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	s := NewProjectService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, newProject("Website")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Add(ctx, newProject("Website")); !errors.Is(err, common.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for reused title, got %v", err)
	}
}

func TestProjectServiceFindAll(t *testing.T) {
	ctx := context.Background()
	s := NewProjectService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.FindAll(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if _, err := s.Add(ctx, newProject("Website")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Add(ctx, newProject("Mobile App")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	projects, err := s.FindAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("expected 2 projects, got %d", len(projects))
	}
}

func TestProjectServiceUpdate(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()
	ids := seedUsers(t, m, 2)
	s := NewProjectService(m)

	created, err := s.Add(ctx, newProject("Website", ids[0]))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// keeping the own title is fine; membership is replaced, not merged
	in := newProject("Website", ids[1])
	in.ID = created.ID
	updated, err := s.Update(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Users) != 1 || updated.Users[0].ID != ids[1] {
		t.Errorf("expected membership replaced with user %d, got %+v", ids[1], updated.Users)
	}
}

func TestProjectServiceUpdateConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewProjectService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, newProject("Website")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := s.Add(ctx, newProject("Mobile App"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := newProject("Website")
	in.ID = other.ID
	if _, err := s.Update(ctx, in); !errors.Is(err, common.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for another project's title, got %v", err)
	}

	in = newProject("Desktop App")
	in.ID = other.ID + 100
	if _, err := s.Update(ctx, in); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
