package lifecycle

import (
	"time"

	"delivery-marketplace/models"

	"gorm.io/gorm"
)

// StatsFilter narrows the dashboard rollup. A zero RestaurantID means all
// restaurants (admin only); a zero Status means every non-cancelled order.
type StatsFilter struct {
	RestaurantID uint
	From         *time.Time
	To           *time.Time
	Status       models.OrderStatus
}

// OrderStats is the per-request dashboard rollup. Nothing is cached; every
// call recomputes from the order table.
type OrderStats struct {
	OrdersCount       int64   `json:"orders_count"`
	Revenue           float64 `json:"revenue"`
	AverageOrderPrice float64 `json:"average_order_price"`
}

// OrderStatistics computes count, revenue and average order value over the
// filtered orders. Cancelled orders never contribute revenue.
func OrderStatistics(db *gorm.DB, f StatsFilter) (OrderStats, error) {
	q := db.Model(&models.Order{})
	if f.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", models.StatusCancelled)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var row struct {
		OrdersCount int64
		Revenue     float64
	}
	if err := q.Select("COUNT(*) AS orders_count, COALESCE(SUM(total_price), 0) AS revenue").
		Scan(&row).Error; err != nil {
		return OrderStats{}, err
	}

	stats := OrderStats{OrdersCount: row.OrdersCount, Revenue: row.Revenue}
	if f.Status == models.StatusCancelled {
		stats.Revenue = 0
	}
	if stats.OrdersCount > 0 {
		stats.AverageOrderPrice = stats.Revenue / float64(stats.OrdersCount)
	}
	return stats, nil
}
