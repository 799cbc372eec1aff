package repo

import (
	"context"
	"strings"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0)
	if err := r.DB.WithContext(ctx).Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// UpdateMenuItem overwrites the editable fields of the item with id.
func (r *GormRepo) UpdateMenuItem(ctx context.Context, id uuid.UUID, item models.MenuItem) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ?", id).
		Select("name", "category", "price", "recipe", "image").
		Updates(models.MenuItem{
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
			Recipe:   item.Recipe,
			Image:    item.Image,
		})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) CountMenu(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, err
}

// SearchMenu is the plain SQL fallback used when no search index is configured.
func (r *GormRepo) SearchMenu(ctx context.Context, q string, offset, limit int) (int64, []models.MenuItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(recipe) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where(where, pattern, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.MenuItem, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where(where, pattern, pattern, pattern).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
