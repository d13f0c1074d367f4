package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dupp-api/internal/domain"

	"time"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInventoryNotFound = errors.New("inventory record not found")
)

// CatalogStore is the import pipelines' view of the product store. Reads see
// committed state only; writes are staged on a Batch and applied atomically
// on commit.
type CatalogStore interface {
	ProductExists(ctx context.Context, id string) (bool, error)
	Begin(ctx context.Context) (Batch, error)
}

// Batch is a set of catalog writes committed together. Staged writes to the
// same key coalesce with last-writer-wins, matching the store's batch
// semantics.
type Batch interface {
	UpsertProduct(ctx context.Context, product *domain.Product) error
	UpsertInventory(ctx context.Context, record *domain.InventoryRecord) error
	SetProductStock(ctx context.Context, productID string, stock int, at time.Time) error
	SetInventoryQuantity(ctx context.Context, productID string, quantity int, at time.Time) error
	Commit() error
	Rollback() error
}

type catalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a CatalogStore backed by Postgres.
func NewCatalogStore(db *sql.DB) CatalogStore {
	return &catalogStore{db: db}
}

// ProductExists reports whether a product record with the given composite id
// has been committed.
func (s *catalogStore) ProductExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// Begin opens a new write batch.
func (s *catalogStore) Begin(ctx context.Context) (Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin batch: %w", err)
	}
	return &sqlBatch{tx: tx}, nil
}

type sqlBatch struct {
	tx *sql.Tx
}

// UpsertProduct stages a full product upsert. created_at is preserved for
// existing rows.
func (b *sqlBatch) UpsertProduct(ctx context.Context, product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	var dimensions any
	if product.Dimensions != nil {
		encoded, err := json.Marshal(product.Dimensions)
		if err != nil {
			return fmt.Errorf("failed to encode dimensions: %w", err)
		}
		dimensions = encoded
	}

	var originalPrice any
	if product.OriginalPrice != nil {
		originalPrice = *product.OriginalPrice
	}

	query := `
		INSERT INTO products (
			id, name, description, price, original_price, category, subcategory,
			brand, images, stock, active, weight, dimensions, ean, sku,
			supplier, supplier_product_id, origin, last_sync_date, imported_by,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			brand = EXCLUDED.brand,
			images = EXCLUDED.images,
			stock = EXCLUDED.stock,
			active = EXCLUDED.active,
			weight = EXCLUDED.weight,
			dimensions = EXCLUDED.dimensions,
			ean = EXCLUDED.ean,
			sku = EXCLUDED.sku,
			supplier = EXCLUDED.supplier,
			supplier_product_id = EXCLUDED.supplier_product_id,
			origin = EXCLUDED.origin,
			last_sync_date = EXCLUDED.last_sync_date,
			imported_by = EXCLUDED.imported_by,
			updated_at = EXCLUDED.updated_at
	`

	_, err = b.tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		originalPrice,
		product.Category,
		product.Subcategory,
		product.Brand,
		images,
		product.Stock,
		product.Active,
		product.Weight,
		dimensions,
		product.EAN,
		product.SKU,
		product.Supplier,
		product.SupplierProductID,
		product.Origin,
		product.LastSyncDate,
		product.ImportedBy,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", product.ID, err)
	}

	return nil
}

// UpsertInventory stages a merge-upsert of an inventory record. The reorder
// point is a create-time default only; existing rows keep theirs.
func (b *sqlBatch) UpsertInventory(ctx context.Context, record *domain.InventoryRecord) error {
	query := `
		INSERT INTO inventory (product_id, quantity, supplier, reorder_point, cost, status, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			supplier = EXCLUDED.supplier,
			cost = EXCLUDED.cost,
			status = EXCLUDED.status,
			last_updated = EXCLUDED.last_updated
	`

	_, err := b.tx.ExecContext(
		ctx,
		query,
		record.ProductID,
		record.Quantity,
		record.Supplier,
		record.ReorderPoint,
		record.Cost,
		record.Status,
		record.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory for %s: %w", record.ProductID, err)
	}

	return nil
}

// SetProductStock stages a stock refresh on a product record.
func (b *sqlBatch) SetProductStock(ctx context.Context, productID string, stock int, at time.Time) error {
	query := `UPDATE products SET stock = $2, last_stock_update = $3, updated_at = $3 WHERE id = $1`

	_, err := b.tx.ExecContext(ctx, query, productID, stock, at)
	if err != nil {
		return fmt.Errorf("failed to set stock for product %s: %w", productID, err)
	}
	return nil
}

// SetInventoryQuantity stages a quantity refresh on an inventory record.
func (b *sqlBatch) SetInventoryQuantity(ctx context.Context, productID string, quantity int, at time.Time) error {
	query := `UPDATE inventory SET quantity = $2, last_updated = $3 WHERE product_id = $1`

	_, err := b.tx.ExecContext(ctx, query, productID, quantity, at)
	if err != nil {
		return fmt.Errorf("failed to set inventory quantity for %s: %w", productID, err)
	}
	return nil
}

func (b *sqlBatch) Commit() error {
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (b *sqlBatch) Rollback() error {
	return b.tx.Rollback()
}
