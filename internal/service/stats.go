package service

import (
	"context"
	"fmt"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type StatsService struct {
	Repo *repo.GormRepo
}

func checkStatusFilter(status string) error {
	switch status {
	case "", models.PaymentStatusPending, models.PaymentStatusSuccess:
		return nil
	}
	return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
}

// AdminStats counts users, menu items and payments and sums payment prices.
// An empty status counts every payment whatever its outcome.
func (s *StatsService) AdminStats(ctx context.Context, status string) (transport.AdminStats, error) {
	if err := checkStatusFilter(status); err != nil {
		return transport.AdminStats{}, err
	}

	var (
		out transport.AdminStats
		err error
	)
	if out.Users, err = s.Repo.CountUsers(ctx); err != nil {
		return transport.AdminStats{}, err
	}
	if out.MenuItems, err = s.Repo.CountMenu(ctx); err != nil {
		return transport.AdminStats{}, err
	}
	if out.Orders, err = s.Repo.CountPayments(ctx, status); err != nil {
		return transport.AdminStats{}, err
	}
	if out.Revenue, err = s.Repo.Revenue(ctx, status); err != nil {
		return transport.AdminStats{}, err
	}
	return out, nil
}

func (s *StatsService) OrderStats(ctx context.Context, status string) ([]repo.CategoryStat, error) {
	if err := checkStatusFilter(status); err != nil {
		return nil, err
	}
	return s.Repo.OrderStats(ctx, status)
}
