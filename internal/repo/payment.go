package repo

import (
	"context"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/google/uuid"
)

// CreatePayment inserts the payment and one PaymentItem per menu reference.
func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment, menuIDs []uuid.UUID) error {
	p.Items = make([]models.PaymentItem, 0, len(menuIDs))
	for _, id := range menuIDs {
		p.Items = append(p.Items, models.PaymentItem{MenuItemID: id})
	}
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) ListPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	if err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("date DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *GormRepo) FindPaymentByTransaction(ctx context.Context, transactionID, gateway string) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).
		Where("transaction_id = ? AND gateway = ?", transactionID, gateway).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaymentStatus moves the payment to status unless it is already there.
// It reports whether this call performed the transition.
func (r *GormRepo) MarkPaymentStatus(ctx context.Context, transactionID, gateway, status string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("transaction_id = ? AND gateway = ? AND status <> ?", transactionID, gateway, status).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) CountPayments(ctx context.Context, status string) (int64, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Payment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}
