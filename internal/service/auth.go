package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/tokens"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueToken signs whatever identity the caller presents. Roles are never
// carried in the token.
func (s *AuthService) IssueToken(ctx context.Context, req transport.TokenRequest) (string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return "", fmt.Errorf("%w: email required", ErrValidation)
	}

	token, _, err := tokens.Issue(tokens.Identity{Email: email, Name: req.Name}, s.Secret, s.TTL, s.now())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *AuthService) VerifyToken(token string) (*tokens.Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := tokens.ClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

// IsAdmin reads the role from the store on every call.
func (s *AuthService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.Repo.FindUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

func (s *AuthService) RequireAdmin(ctx context.Context, email string) error {
	ok, err := s.IsAdmin(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireSelf fails unless requested names the caller.
func RequireSelf(caller, requested string) error {
	if caller == "" || caller != requested {
		return ErrForbidden
	}
	return nil
}
