package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dupp-api/internal/domain"
)

// InventoryRepository defines the interface for inventory data access outside
// the batched import/sync pipelines.
type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID string) (*domain.InventoryRecord, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int, status domain.StockStatus, at time.Time) error
	List(ctx context.Context, page, pageSize int, status domain.StockStatus, lowStockOnly bool) ([]*domain.InventoryItem, int, error)
	Summary(ctx context.Context) (*domain.InventorySummary, error)
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// FindByProductID retrieves one inventory record by composite product id
func (r *inventoryRepository) FindByProductID(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	query := `
		SELECT product_id, quantity, supplier, reorder_point, cost, status, last_updated
		FROM inventory
		WHERE product_id = $1
	`

	record := &domain.InventoryRecord{}
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&record.ProductID,
		&record.Quantity,
		&record.Supplier,
		&record.ReorderPoint,
		&record.Cost,
		&record.Status,
		&record.LastUpdated,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to find inventory record: %w", err)
	}

	return record, nil
}

// UpdateQuantity sets the quantity and derived status of one inventory record
func (r *inventoryRepository) UpdateQuantity(ctx context.Context, productID string, quantity int, status domain.StockStatus, at time.Time) error {
	query := `
		UPDATE inventory
		SET quantity = $2, status = $3, last_updated = $4
		WHERE product_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, productID, quantity, status, at)
	if err != nil {
		return fmt.Errorf("failed to update inventory quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrInventoryNotFound
	}

	return nil
}

// List retrieves inventory records joined with catalog fields, with optional
// status filtering and pagination. lowStockOnly restricts to records at or
// below their reorder point.
func (r *inventoryRepository) List(ctx context.Context, page, pageSize int, status domain.StockStatus, lowStockOnly bool) ([]*domain.InventoryItem, int, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if status != "" {
		whereClause = fmt.Sprintf("WHERE i.status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	if lowStockOnly {
		if whereClause == "" {
			whereClause = "WHERE i.quantity <= i.reorder_point"
		} else {
			whereClause += " AND i.quantity <= i.reorder_point"
		}
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		%s
	`, whereClause)

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT i.product_id, i.quantity, i.supplier, i.reorder_point, i.cost, i.status, i.last_updated,
		       p.name, p.price
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		%s
		ORDER BY i.last_updated DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	items := []*domain.InventoryItem{}
	for rows.Next() {
		item := &domain.InventoryItem{}
		err := rows.Scan(
			&item.ProductID,
			&item.Quantity,
			&item.Supplier,
			&item.ReorderPoint,
			&item.Cost,
			&item.Status,
			&item.LastUpdated,
			&item.ProductName,
			&item.Price,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating inventory: %w", err)
	}

	return items, total, nil
}

// Summary returns the headline counts for the inventory overview
func (r *inventoryRepository) Summary(ctx context.Context) (*domain.InventorySummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COUNT(*) FILTER (WHERE status = 'low_stock'),
			COUNT(*) FILTER (WHERE status = 'out_of_stock')
		FROM inventory
	`

	summary := &domain.InventorySummary{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&summary.TotalProducts,
		&summary.TotalQuantity,
		&summary.LowStock,
		&summary.OutOfStock,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory summary: %w", err)
	}

	return summary, nil
}
