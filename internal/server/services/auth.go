package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibbra/hourglass/internal/common"
	"github.com/vibbra/hourglass/internal/server/auth"
	"github.com/vibbra/hourglass/internal/server/models"
	"github.com/vibbra/hourglass/internal/server/repositories/repomanager"
)

// AuthService authenticates a login/password pair and mints an access token
// carrying the user's id and email.
type AuthService struct {
	repos         repomanager.RepositoryManager
	secretKey     []byte
	tokenValidity time.Duration
}

func NewAuthService(m repomanager.RepositoryManager, secretKey string, tokenValidity time.Duration) *AuthService {
	return &AuthService{repos: m, secretKey: []byte(secretKey), tokenValidity: tokenValidity}
}

// Authenticate returns the signed token and the matched user. The password
// is the opaque string the user record stores; matching is plain equality.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (string, *models.User, error) {
	if login == "" || password == "" {
		return "", nil, fmt.Errorf("%w: login and password must be filled in", common.ErrRequiredField)
	}

	user, err := s.repos.Users().SelectFirst(ctx, func(u *models.User) bool {
		return u.Login == login && u.Password == password
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: could not log in, user not found", common.ErrNotFound)
		}
		return "", nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.secretKey, s.tokenValidity)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
