package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus is the derived availability state of an inventory record.
type StockStatus string

const (
	StatusInStock      StockStatus = "in_stock"
	StatusLowStock     StockStatus = "low_stock"
	StatusOutOfStock   StockStatus = "out_of_stock"
	StatusDiscontinued StockStatus = "discontinued"
)

const (
	// DefaultReorderPoint is the restock threshold assigned to newly
	// imported inventory records.
	DefaultReorderPoint = 10

	// LowStockThreshold is the quantity at or below which (but above zero)
	// an inventory record counts as low stock.
	LowStockThreshold = 10
)

// DeriveStatus maps a quantity to its stock status. Quantity <= 0 is out of
// stock, 1..10 is low stock, above that in stock. Discontinued is never
// derived; it is set explicitly.
func DeriveStatus(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// DeriveCost returns the cost basis for an imported product: the supplier's
// original (wholesale) price when reported, otherwise 70% of the retail
// price. The 70% figure is a business heuristic carried over from the
// storefront, not derived from anything.
func DeriveCost(originalPrice *decimal.Decimal, price decimal.Decimal) decimal.Decimal {
	if originalPrice != nil {
		return *originalPrice
	}
	return price.Mul(decimal.NewFromFloat(0.7))
}

// InventoryRecord tracks stock for one supplier-sourced product. Its
// existence is 1:1 with the product record; both are written in the same
// batch by the import pipeline.
type InventoryRecord struct {
	ProductID    string          `json:"productId" db:"product_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Supplier     string          `json:"supplier" db:"supplier"`
	ReorderPoint int             `json:"reorderPoint" db:"reorder_point"`
	Cost         decimal.Decimal `json:"cost" db:"cost"`
	Status       StockStatus     `json:"status" db:"status"`
	LastUpdated  time.Time       `json:"lastUpdated" db:"last_updated"`
}

// InventoryItem is an inventory record joined with the catalog fields the
// overview listing displays.
type InventoryItem struct {
	InventoryRecord
	ProductName string          `json:"productName" db:"product_name"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// InventorySummary holds the headline counts for the inventory overview.
type InventorySummary struct {
	TotalProducts int `json:"totalProducts"`
	TotalQuantity int `json:"totalQuantity"`
	LowStock      int `json:"lowStock"`
	OutOfStock    int `json:"outOfStock"`
}
