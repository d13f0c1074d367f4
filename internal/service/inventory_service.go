package service

import (
	"context"
	"fmt"
	"time"

	"dupp-api/internal/domain"
	"dupp-api/internal/repository"

	"go.uber.org/zap"
)

// InventoryOverview is the paginated listing the admin dashboard shows.
type InventoryOverview struct {
	Items    []*domain.InventoryItem  `json:"items"`
	Summary  *domain.InventorySummary `json:"summary"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
}

// InventoryService exposes the admin inventory operations.
type InventoryService interface {
	Overview(ctx context.Context, page, pageSize int, status string, lowStockOnly bool) (*InventoryOverview, error)
	UpdateQuantity(ctx context.Context, productID string, quantity *int) (*domain.InventoryRecord, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	logger        *zap.Logger
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(inventoryRepo repository.InventoryRepository, logger *zap.Logger) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// Overview returns one page of inventory records plus the headline counts.
func (s *inventoryService) Overview(ctx context.Context, page, pageSize int, status string, lowStockOnly bool) (*InventoryOverview, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var statusFilter domain.StockStatus
	if status != "" {
		statusFilter = domain.StockStatus(status)
		switch statusFilter {
		case domain.StatusInStock, domain.StatusLowStock, domain.StatusOutOfStock, domain.StatusDiscontinued:
		default:
			return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
		}
	}

	items, total, err := s.inventoryRepo.List(ctx, page, pageSize, statusFilter, lowStockOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	summary, err := s.inventoryRepo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory summary: %w", err)
	}

	return &InventoryOverview{
		Items:    items,
		Summary:  summary,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateQuantity sets an inventory record's quantity and recomputes its
// derived status. The quantity must be present and non-negative.
func (s *inventoryService) UpdateQuantity(ctx context.Context, productID string, quantity *int) (*domain.InventoryRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	if quantity == nil {
		return nil, fmt.Errorf("quantity is required: %w", ErrValidation)
	}
	if *quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrValidation)
	}

	now := time.Now()
	status := domain.DeriveStatus(*quantity)

	if err := s.inventoryRepo.UpdateQuantity(ctx, productID, *quantity, status, now); err != nil {
		return nil, err
	}

	record, err := s.inventoryRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inventory quantity updated",
		zap.String("product_id", productID),
		zap.Int("quantity", *quantity),
		zap.String("status", string(status)),
	)

	return record, nil
}
