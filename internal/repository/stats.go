package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is the aggregate the admin dashboard renders.
type DashboardStats struct {
	OrdersToday   int             `json:"orders_today"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
	ProductCount  int             `json:"product_count"`
	CategoryCount int             `json:"category_count"`
}

func (s *Store) GetDashboardStats(ctx context.Context, shopID uuid.UUID, now time.Time) (*DashboardStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats DashboardStats
	var revenue decimal.NullDecimal

	query := `SELECT
	            (SELECT COUNT(*) FROM orders WHERE shop_id = $1 AND created_at >= $2 AND status <> 'CANCELLED'),
	            (SELECT SUM(total_amount) FROM orders WHERE shop_id = $1 AND created_at >= $2 AND status <> 'CANCELLED'),
	            (SELECT COUNT(*) FROM products WHERE shop_id = $1),
	            (SELECT COUNT(*) FROM categories WHERE shop_id = $1)`

	err := s.db.QueryRowContext(ctx, query, shopID, dayStart).Scan(
		&stats.OrdersToday, &revenue, &stats.ProductCount, &stats.CategoryCount)
	if err != nil {
		return nil, fmt.Errorf("query dashboard stats: %w", err)
	}

	if revenue.Valid {
		stats.RevenueToday = revenue.Decimal
	} else {
		stats.RevenueToday = decimal.Zero
	}
	return &stats, nil
}
