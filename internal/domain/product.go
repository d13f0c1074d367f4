package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Dimensions describes a product's physical size in consistent units.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SupplierProduct is the normalized representation of one catalog item as
// reported by a supplier adapter. ID is the supplier-local identifier;
// SupplierProductID is the supplier's native id and is stable for a given
// physical product at that supplier.
type SupplierProduct struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	OriginalPrice     *decimal.Decimal `json:"originalPrice,omitempty"`
	Category          string           `json:"category"`
	Subcategory       string           `json:"subcategory,omitempty"`
	Brand             string           `json:"brand,omitempty"`
	Images            []string         `json:"images"`
	Stock             int              `json:"stock"`
	Active            bool             `json:"active"`
	Weight            *float64         `json:"weight,omitempty"`
	Dimensions        *Dimensions      `json:"dimensions,omitempty"`
	EAN               string           `json:"ean,omitempty"`
	SKU               string           `json:"sku,omitempty"`
	Supplier          string           `json:"supplier"`
	SupplierProductID string           `json:"supplierProductId"`
}

// Product is the store entity: a normalized supplier product plus the import
// bookkeeping fields. Products are never deleted by the import pipelines;
// deactivation is Active=false.
type Product struct {
	ID                string           `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Description       string           `json:"description" db:"description"`
	Price             decimal.Decimal  `json:"price" db:"price"`
	OriginalPrice     *decimal.Decimal `json:"originalPrice,omitempty" db:"original_price"`
	Category          string           `json:"category" db:"category"`
	Subcategory       string           `json:"subcategory,omitempty" db:"subcategory"`
	Brand             string           `json:"brand,omitempty" db:"brand"`
	Images            []string         `json:"images" db:"images"`
	Stock             int              `json:"stock" db:"stock"`
	Active            bool             `json:"active" db:"active"`
	Weight            *float64         `json:"weight,omitempty" db:"weight"`
	Dimensions        *Dimensions      `json:"dimensions,omitempty" db:"dimensions"`
	EAN               string           `json:"ean,omitempty" db:"ean"`
	SKU               string           `json:"sku,omitempty" db:"sku"`
	Supplier          string           `json:"supplier" db:"supplier"`
	SupplierProductID string           `json:"supplierProductId" db:"supplier_product_id"`
	Origin            string           `json:"origin" db:"origin"`
	LastSyncDate      time.Time        `json:"lastSyncDate" db:"last_sync_date"`
	LastStockUpdate   *time.Time       `json:"lastStockUpdate,omitempty" db:"last_stock_update"`
	ImportedBy        string           `json:"importedBy" db:"imported_by"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`
}

// CompositeID builds the store-wide unique product id for a supplier-sourced
// product: "{supplier}-{supplierProductId}".
func CompositeID(supplier, supplierProductID string) string {
	return fmt.Sprintf("%s-%s", supplier, supplierProductID)
}
