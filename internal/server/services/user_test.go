package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
)

func newUser(name, email, login string) *models.User {
	return &models.User{Name: name, Email: email, Login: login, Password: "secret"}
}

func TestUserServiceAdd(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	user, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected an id to be assigned")
	}
}

func TestUserServiceAddRequiredFields(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		user *models.User
	}{
		{"nil user", nil},
		{"no name", newUser("", "alice@example.com", "alice")},
		{"no email", newUser("Alice", "", "alice")},
		{"no login", newUser("Alice", "alice@example.com", "")},
		{"no password", &models.User{Name: "Alice", Email: "alice@example.com", Login: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUserService(repomanager.NewInMemoryRepositoryManager())
			if _, err := s.Add(ctx, tt.user); !errors.Is(err, common.ErrRequiredField) {
				t.Errorf("expected ErrRequiredField, got %v", err)
			}
		})
	}
}

func TestUserServiceAddDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := s.Add(ctx, newUser("Other Alice", "alice@example.com", "alice2"))
	if !errors.Is(err, common.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for reused email, got %v", err)
	}
}

func TestUserServiceAddDuplicateLogin(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := s.Add(ctx, newUser("Other Alice", "alice2@example.com", "alice"))
	if !errors.Is(err, common.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for reused login, got %v", err)
	}
}

func TestUserServiceFind(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	created, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := s.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", found.Email)
	}

	if _, err := s.Find(ctx, created.ID+100); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	created, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := newUser("Alice Smith", "alice@example.com", "alice")
	in.ID = created.ID
	updated, err := s.Update(ctx, in)
	if err != nil {
		t.Fatalf("resubmitting own email and login must not be a duplicate: %v", err)
	}
	if updated.Name != "Alice Smith" {
		t.Errorf("unexpected name %q", updated.Name)
	}
}

// A rejected update must leave the stored record untouched: the duplicate
// check runs after the loaded aggregate was mutated, so the store must never
// see uncommitted changes.
func TestUserServiceUpdateRejectedLeavesStoredUnchanged(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bob, err := s.Add(ctx, newUser("Bob", "bob@example.com", "bob"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := newUser("Bob", "alice@example.com", "bob")
	in.ID = bob.ID
	if _, err := s.Update(ctx, in); !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	stored, err := s.Find(ctx, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Email != "bob@example.com" {
		t.Errorf("rejected update persisted, stored email is %q", stored.Email)
	}
}

func TestUserServiceUpdateConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewUserService(repomanager.NewInMemoryRepositoryManager())

	if _, err := s.Add(ctx, newUser("Alice", "alice@example.com", "alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bob, err := s.Add(ctx, newUser("Bob", "bob@example.com", "bob"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := newUser("Bob", "alice@example.com", "bob")
	in.ID = bob.ID
	if _, err := s.Update(ctx, in); !errors.Is(err, common.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for another user's email, got %v", err)
	}

	in = newUser("Bob", "bob@example.com", "bob")
	in.ID = bob.ID + 100
	if _, err := s.Update(ctx, in); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
