package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/mykafka"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// CreateUser inserts the user unless one with the same email exists.
func (s *UserService) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.InsertResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return transport.InsertResult{}, fmt.Errorf("%w: email required", ErrValidation)
	}

	user := &models.User{Name: req.Name, Email: email}
	created, err := s.Repo.CreateUserIfNotExists(ctx, user)
	if err != nil {
		return transport.InsertResult{}, err
	}
	if !created {
		return transport.InsertResult{Message: "user already exists"}, nil
	}

	publish(ctx, s.Events, mykafka.TopicUsers, user.Email, "user_created", user)
	return transport.Inserted(user.ID.String()), nil
}

func (s *UserService) PromoteUser(ctx context.Context, rawID string) (transport.UpdateResult, error) {
	id, err := parseID(rawID, "user id")
	if err != nil {
		return transport.UpdateResult{}, err
	}

	matched, modified, err := s.Repo.PromoteUser(ctx, id)
	if err != nil {
		return transport.UpdateResult{}, err
	}
	if modified > 0 {
		publish(ctx, s.Events, mykafka.TopicUsers, id.String(), "user_promoted", map[string]string{"id": id.String()})
	}
	return transport.Updated(matched, modified), nil
}

func (s *UserService) PromoteUserByEmail(ctx context.Context, email string) error {
	n, err := s.Repo.PromoteUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, rawID string) (transport.DeleteResult, error) {
	id, err := parseID(rawID, "user id")
	if err != nil {
		return transport.DeleteResult{}, err
	}

	n, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		return transport.DeleteResult{}, err
	}
	if n > 0 {
		publish(ctx, s.Events, mykafka.TopicUsers, id.String(), "user_deleted", map[string]string{"id": id.String()})
	}
	return transport.Deleted(n), nil
}
