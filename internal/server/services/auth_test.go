package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/auth"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
)

func TestAuthServiceAuthenticate(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()

	user, err := NewUserService(m).Add(ctx, newUser("Alice", "alice@example.com", "alice"))
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	s := NewAuthService(m, "test-secret", time.Minute)

	token, authed, err := s.Authenticate(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, authed.ID)
	}

	userID, err := auth.UserIDFromToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("token must verify with the issuing key: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token carries user %d, expected %d", userID, user.ID)
	}
}

func TestAuthServiceAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()

	if _, err := NewUserService(m).Add(ctx, newUser("Alice", "alice@example.com", "alice")); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	s := NewAuthService(m, "test-secret", time.Minute)

	if _, _, err := s.Authenticate(ctx, "", "secret"); !errors.Is(err, common.ErrRequiredField) {
		t.Errorf("expected ErrRequiredField for empty login, got %v", err)
	}
	if _, _, err := s.Authenticate(ctx, "alice", ""); !errors.Is(err, common.ErrRequiredField) {
		t.Errorf("expected ErrRequiredField for empty password, got %v", err)
	}
	if _, _, err := s.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong password, got %v", err)
	}
	if _, _, err := s.Authenticate(ctx, "nobody", "secret"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown login, got %v", err)
	}
}
