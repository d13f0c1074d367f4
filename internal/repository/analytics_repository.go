package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsRepository runs the read-only aggregations behind the admin
// dashboard.
type AnalyticsRepository interface {
	RevenueAndOrders(ctx context.Context, since time.Time) (decimal.Decimal, int, error)
	NewCustomers(ctx context.Context, since time.Time) (int, error)
}

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// RevenueAndOrders sums order totals and counts orders placed since the given
// time. Cancelled orders do not count toward revenue.
func (r *analyticsRepository) RevenueAndOrders(ctx context.Context, since time.Time) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND status <> 'cancelled'
	`

	var revenue decimal.Decimal
	var count int
	err := r.db.QueryRowContext(ctx, query, since).Scan(&revenue, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	return revenue, count, nil
}

// NewCustomers counts user accounts created since the given time
func (r *analyticsRepository) NewCustomers(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE created_at >= $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count new customers: %w", err)
	}

	return count, nil
}
