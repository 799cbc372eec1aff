package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation              = errors.New("validation")                  // 400
	ErrUnauthorized            = errors.New("unauthorized access")         // 401
	ErrForbidden               = errors.New("forbidden access")            // 403
	ErrNotFound                = errors.New("not found")                   // 404
	ErrGatewayValidationFailed = errors.New("payment failed")              // 400
	ErrGateway                 = errors.New("payment gateway unavailable") // 502
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func parseID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", ErrValidation, field, s)
	}
	return id, nil
}

func parseIDs(ss []string, field string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		id, err := parseID(s, field)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
