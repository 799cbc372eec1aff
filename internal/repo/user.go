package repo

import (
	"context"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.DB.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserIfNotExists reports false when a user with the same email exists.
// The email unique index decides, so concurrent first logins insert one row.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) (bool, error) {
	tx := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(u)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *GormRepo) PromoteUser(ctx context.Context, id uuid.UUID) (matched int64, modified int64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&matched).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND role <> ?", id, models.RoleAdmin).
			Update("role", models.RoleAdmin)
		if res.Error != nil {
			return res.Error
		}
		modified = res.RowsAffected
		return nil
	})
	return matched, modified, err
}

func (r *GormRepo) PromoteUserByEmail(ctx context.Context, email string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("role", models.RoleAdmin)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}
