package supplier

import (
	"context"
	"fmt"

	"dupp-api/internal/domain"
)

// MaxSearchLimit caps how many products a single search may return,
// regardless of what the caller asked for.
const MaxSearchLimit = 100

// MaxSyncBatch caps how many product ids one SyncStock call processes.
// Excess ids are dropped; callers that need more must paginate.
const MaxSyncBatch = 100

// StockResult is the per-id outcome of a stock sync. A failed id carries
// Stock 0 and Success false and never aborts the batch.
type StockResult struct {
	ProductID string `json:"productId"`
	Stock     int    `json:"stock"`
	Success   bool   `json:"success"`
}

// Category is one node of a supplier's category tree.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// Adapter translates one external catalog API into normalized products.
// Implementations construct themselves from the process environment; missing
// credentials make IsConfigured return false rather than failing startup.
type Adapter interface {
	// Name is the registry key and the prefix of composite product ids.
	Name() string

	// IsConfigured reports whether the required upstream credentials are
	// present. Unconfigured adapters must not be registered.
	IsConfigured() bool

	// SearchProducts queries the upstream catalog. The limit is capped at
	// MaxSearchLimit. Category may be empty.
	SearchProducts(ctx context.Context, query, category string, limit int) ([]domain.SupplierProduct, error)

	// GetProductDetails fetches one product by the supplier's native id.
	GetProductDetails(ctx context.Context, supplierProductID string) (*domain.SupplierProduct, error)

	// CheckStock returns the current stock for the supplier's native id.
	// A malformed upstream payload yields 0, not an error, so sync
	// pipelines stay resilient to partial upstream data.
	CheckStock(ctx context.Context, supplierProductID string) (int, error)

	// SyncStock checks stock for up to MaxSyncBatch composite product ids,
	// stripping the supplier prefix to recover native ids. Per-item
	// failures are reported in the result, never returned as an error.
	SyncStock(ctx context.Context, productIDs []string) ([]StockResult, error)

	// GetCategories fetches the upstream category tree.
	GetCategories(ctx context.Context) ([]Category, error)
}

// UpstreamError reports a non-2xx or otherwise unusable response from a
// supplier's API.
type UpstreamError struct {
	Supplier   string
	Operation  string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: upstream returned status %d: %s", e.Supplier, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Supplier, e.Operation, e.Message)
}
