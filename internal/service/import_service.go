package service

import (
	"context"
	"fmt"
	"time"

	"dupp-api/internal/domain"
	"dupp-api/internal/repository"
	"dupp-api/internal/supplier"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportResult reports one import run. Per-product failures land in Errors
// alongside nonzero counts; partial progress is still Success at the pipeline
// level. Only a failed batch commit flips Success to false.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

// SyncResult reports one stock sync run. Items with Success false kept their
// last-known stock value in the store.
type SyncResult struct {
	Success bool                   `json:"success"`
	Results []supplier.StockResult `json:"results"`
}

// ImportService runs the supplier import and stock sync pipelines.
type ImportService interface {
	ImportProducts(ctx context.Context, supplierName string, products []domain.SupplierProduct, adminUID string) (*ImportResult, error)
	SyncStock(ctx context.Context, supplierName string, productIDs []string) (*SyncResult, error)
	RecentImports(ctx context.Context, limit int) ([]*domain.ImportLogEntry, error)
}

type importService struct {
	store      repository.CatalogStore
	importLogs repository.ImportLogRepository
	registry   *supplier.Registry
	logger     *zap.Logger
}

// NewImportService creates a new instance of ImportService
func NewImportService(
	store repository.CatalogStore,
	importLogs repository.ImportLogRepository,
	registry *supplier.Registry,
	logger *zap.Logger,
) ImportService {
	return &importService{
		store:      store,
		importLogs: importLogs,
		registry:   registry,
		logger:     logger,
	}
}

// ImportProducts upserts a batch of already-fetched supplier products into the
// catalog and inventory in one atomic batch, then appends an import log entry.
// Each product is processed independently: a bad product is reported in the
// result and does not abort the rest. Duplicate supplier product ids within
// one call coalesce last-writer-wins and count once.
func (s *importService) ImportProducts(ctx context.Context, supplierName string, products []domain.SupplierProduct, adminUID string) (*ImportResult, error) {
	batch, err := s.store.Begin(ctx)
	if err != nil {
		return &ImportResult{Success: false, Errors: []string{err.Error()}}, &BatchCommitError{Err: err}
	}

	result := &ImportResult{Success: true, Errors: []string{}}
	now := time.Now()

	// composite id -> whether a committed record already existed
	seen := make(map[string]bool)

	for _, product := range products {
		if product.SupplierProductID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("product %q: missing supplier product id", product.Name))
			continue
		}

		compositeID := domain.CompositeID(supplierName, product.SupplierProductID)

		existed, dup := seen[compositeID]
		if !dup {
			existed, err = s.store.ProductExists(ctx, compositeID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("product %s: %v", product.SupplierProductID, err))
				continue
			}
		}

		record := buildProductRecord(compositeID, supplierName, adminUID, product, now)
		if err := batch.UpsertProduct(ctx, record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("product %s: %v", product.SupplierProductID, err))
			continue
		}

		inventory := &domain.InventoryRecord{
			ProductID:    compositeID,
			Quantity:     product.Stock,
			Supplier:     supplierName,
			ReorderPoint: domain.DefaultReorderPoint,
			Cost:         domain.DeriveCost(product.OriginalPrice, product.Price),
			Status:       domain.DeriveStatus(product.Stock),
			LastUpdated:  now,
		}
		if err := batch.UpsertInventory(ctx, inventory); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("inventory %s: %v", product.SupplierProductID, err))
			continue
		}

		if !dup {
			if existed {
				result.Updated++
			} else {
				result.Imported++
			}
			seen[compositeID] = existed
		}
	}

	if err := batch.Commit(); err != nil {
		s.logger.Error("Import batch commit failed",
			zap.String("supplier", supplierName),
			zap.Int("products", len(products)),
			zap.Error(err),
		)
		return &ImportResult{Success: false, Errors: []string{err.Error()}}, &BatchCommitError{Err: err}
	}

	entry := &domain.ImportLogEntry{
		ID:             uuid.New(),
		Supplier:       supplierName,
		Imported:       result.Imported,
		Updated:        result.Updated,
		TotalProcessed: len(products),
		Errors:         len(result.Errors),
		PerformedBy:    adminUID,
		Timestamp:      now,
	}
	if err := s.importLogs.Create(ctx, entry); err != nil {
		// The batch is already committed; a missing log line is not worth
		// failing the run over.
		s.logger.Warn("Failed to write import log entry",
			zap.String("supplier", supplierName),
			zap.Error(err),
		)
	}

	s.logger.Info("Import run completed",
		zap.String("supplier", supplierName),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

// SyncStock asks the named supplier's adapter for current stock on the given
// composite product ids and writes the successful results back to the catalog
// and inventory in one batch. Failed items generate no writes: the store
// keeps its last-known stock value for those products.
func (s *importService) SyncStock(ctx context.Context, supplierName string, productIDs []string) (*SyncResult, error) {
	adapter, ok := s.registry.Get(supplierName)
	if !ok {
		return nil, fmt.Errorf("supplier %s not found: %w", supplierName, ErrSupplierNotFound)
	}

	results, err := adapter.SyncStock(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("stock sync against %s failed: %w", supplierName, err)
	}

	batch, err := s.store.Begin(ctx)
	if err != nil {
		return nil, &BatchCommitError{Err: err}
	}

	now := time.Now()
	for _, r := range results {
		if !r.Success {
			continue
		}
		if err := batch.SetProductStock(ctx, r.ProductID, r.Stock, now); err != nil {
			batch.Rollback()
			return nil, &BatchCommitError{Err: err}
		}
		if err := batch.SetInventoryQuantity(ctx, r.ProductID, r.Stock, now); err != nil {
			batch.Rollback()
			return nil, &BatchCommitError{Err: err}
		}
	}

	if err := batch.Commit(); err != nil {
		s.logger.Error("Stock sync batch commit failed",
			zap.String("supplier", supplierName),
			zap.Error(err),
		)
		return nil, &BatchCommitError{Err: err}
	}

	return &SyncResult{Success: true, Results: results}, nil
}

// RecentImports returns the latest import run summaries, newest first.
func (s *importService) RecentImports(ctx context.Context, limit int) ([]*domain.ImportLogEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.importLogs.ListRecent(ctx, limit)
}

// buildProductRecord merges a normalized supplier product with the import
// bookkeeping fields.
func buildProductRecord(compositeID, supplierName, adminUID string, p domain.SupplierProduct, now time.Time) *domain.Product {
	return &domain.Product{
		ID:                compositeID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		OriginalPrice:     p.OriginalPrice,
		Category:          p.Category,
		Subcategory:       p.Subcategory,
		Brand:             p.Brand,
		Images:            p.Images,
		Stock:             p.Stock,
		Active:            p.Active,
		Weight:            p.Weight,
		Dimensions:        p.Dimensions,
		EAN:               p.EAN,
		SKU:               p.SKU,
		Supplier:          p.Supplier,
		SupplierProductID: p.SupplierProductID,
		Origin:            supplierName,
		LastSyncDate:      now,
		ImportedBy:        adminUID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
