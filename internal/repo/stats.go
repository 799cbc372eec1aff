package repo

import (
	"context"

	"github.com/NureAlam68/magical-meals-server/internal/models"
)

type CategoryStat struct {
	Category string  `json:"category"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Revenue sums the recorded price of payments, all of them when status is empty.
func (r *GormRepo) Revenue(ctx context.Context, status string) (float64, error) {
	var total float64
	q := r.DB.WithContext(ctx).Model(&models.Payment{}).Select("COALESCE(SUM(price), 0)")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// OrderStats explodes the menu references of payments and groups them by the
// current category of the referenced item, pricing each at its current price.
func (r *GormRepo) OrderStats(ctx context.Context, status string) ([]CategoryStat, error) {
	stats := make([]CategoryStat, 0)
	q := r.DB.WithContext(ctx).
		Table("payment_items AS pi").
		Select("m.category AS category, COUNT(*) AS quantity, COALESCE(SUM(m.price), 0) AS revenue").
		Joins("JOIN menu_items AS m ON m.id = pi.menu_item_id")
	if status != "" {
		q = q.Joins("JOIN payments AS p ON p.id = pi.payment_id").Where("p.status = ?", status)
	}
	if err := q.Group("m.category").Order("m.category ASC").Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
