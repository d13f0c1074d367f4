package service

import (
	"context"
	"fmt"
	"time"

	"dupp-api/internal/domain"
	"dupp-api/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardAnalytics aggregates revenue, order and customer metrics for one
// reporting period.
type DashboardAnalytics struct {
	Period            string                   `json:"period"`
	TotalRevenue      decimal.Decimal          `json:"totalRevenue"`
	OrderCount        int                      `json:"orderCount"`
	AverageOrderValue decimal.Decimal          `json:"averageOrderValue"`
	NewCustomers      int                      `json:"newCustomers"`
	Inventory         *domain.InventorySummary `json:"inventory"`
}

// AnalyticsService computes the admin dashboard aggregates.
type AnalyticsService interface {
	Dashboard(ctx context.Context, period string) (*DashboardAnalytics, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	inventoryRepo repository.InventoryRepository
}

// NewAnalyticsService creates a new instance of AnalyticsService
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, inventoryRepo repository.InventoryRepository) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		inventoryRepo: inventoryRepo,
	}
}

var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// Dashboard aggregates metrics over the given period ("7d", "30d" or "90d";
// empty defaults to "30d").
func (s *analyticsService) Dashboard(ctx context.Context, period string) (*DashboardAnalytics, error) {
	if period == "" {
		period = "30d"
	}
	days, ok := periodDays[period]
	if !ok {
		return nil, fmt.Errorf("unknown period %q: %w", period, ErrValidation)
	}

	since := time.Now().AddDate(0, 0, -days)

	revenue, orderCount, err := s.analyticsRepo.RevenueAndOrders(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	newCustomers, err := s.analyticsRepo.NewCustomers(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count new customers: %w", err)
	}

	summary, err := s.inventoryRepo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory summary: %w", err)
	}

	averageOrderValue := decimal.Zero
	if orderCount > 0 {
		averageOrderValue = revenue.Div(decimal.NewFromInt(int64(orderCount))).Round(2)
	}

	return &DashboardAnalytics{
		Period:            period,
		TotalRevenue:      revenue,
		OrderCount:        orderCount,
		AverageOrderValue: averageOrderValue,
		NewCustomers:      newCustomers,
		Inventory:         summary,
	}, nil
}
