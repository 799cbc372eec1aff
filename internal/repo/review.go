package repo

import (
	"context"

	"github.com/NureAlam68/magical-meals-server/internal/models"
)

func (r *GormRepo) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	if err := r.DB.WithContext(ctx).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
