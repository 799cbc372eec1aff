package repo

import (
	"context"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) GetCart(ctx context.Context, email string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.DB.WithContext(ctx).Where("email = ?", email).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// DeleteCartItems removes the listed items owned by email. Items owned by
// someone else are left alone.
func (r *GormRepo) DeleteCartItems(ctx context.Context, email string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Where("id IN ? AND email = ?", ids, email).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) CountCartItems(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.DB.WithContext(ctx).Model(&models.CartItem{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}
