package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dupp-api/internal/domain"

	"github.com/shopspring/decimal"
)

func seedInventory(t *testing.T, productID string, quantity, reorderPoint int, status domain.StockStatus, lastUpdated time.Time) {
	t.Helper()

	product := catalogProduct(productID)
	product.Stock = quantity
	commitProduct(t, NewCatalogStore(testDB), product)

	_, err := testDB.Exec(`
		INSERT INTO inventory (product_id, quantity, supplier, reorder_point, cost, status, last_updated)
		VALUES ($1, $2, 'bigbuy', $3, 14.00, $4, $5)
	`, productID, quantity, reorderPoint, status, lastUpdated)
	if err != nil {
		t.Fatalf("failed to seed inventory for %s: %v", productID, err)
	}
}

func TestInventoryFindByProductID(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)
	now := time.Now().UTC().Truncate(time.Second)

	seedInventory(t, "bigbuy-55", 3, 10, domain.StatusLowStock, now)

	record, err := repo.FindByProductID(context.Background(), "bigbuy-55")
	if err != nil {
		t.Fatalf("FindByProductID failed: %v", err)
	}

	if record.Quantity != 3 || record.Status != domain.StatusLowStock {
		t.Errorf("unexpected record: %+v", record)
	}
	if !record.Cost.Equal(decimal.NewFromInt(14)) {
		t.Errorf("expected cost 14, got %s", record.Cost)
	}
}

func TestInventoryFindByProductIDNotFound(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)

	_, err := repo.FindByProductID(context.Background(), "bigbuy-404")
	if !errors.Is(err, ErrInventoryNotFound) {
		t.Errorf("expected ErrInventoryNotFound, got %v", err)
	}
}

func TestInventoryUpdateQuantity(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)
	now := time.Now().UTC().Truncate(time.Second)

	seedInventory(t, "bigbuy-55", 3, 10, domain.StatusLowStock, now)

	err := repo.UpdateQuantity(context.Background(), "bigbuy-55", 0, domain.StatusOutOfStock, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}

	record, err := repo.FindByProductID(context.Background(), "bigbuy-55")
	if err != nil {
		t.Fatalf("FindByProductID failed: %v", err)
	}
	if record.Quantity != 0 || record.Status != domain.StatusOutOfStock {
		t.Errorf("expected 0/out_of_stock, got %d/%s", record.Quantity, record.Status)
	}
}

func TestInventoryUpdateQuantityNotFound(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)

	err := repo.UpdateQuantity(context.Background(), "bigbuy-404", 5, domain.StatusLowStock, time.Now())
	if !errors.Is(err, ErrInventoryNotFound) {
		t.Errorf("expected ErrInventoryNotFound, got %v", err)
	}
}

func TestInventoryListFilters(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)
	now := time.Now().UTC().Truncate(time.Second)

	seedInventory(t, "bigbuy-1", 0, 10, domain.StatusOutOfStock, now.Add(-2*time.Hour))
	seedInventory(t, "bigbuy-2", 5, 10, domain.StatusLowStock, now.Add(-time.Hour))
	seedInventory(t, "bigbuy-3", 100, 10, domain.StatusInStock, now)

	items, total, err := repo.List(context.Background(), 1, 20, "", false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 records, got total=%d len=%d", total, len(items))
	}
	// Newest last_updated first.
	if items[0].ProductID != "bigbuy-3" {
		t.Errorf("expected newest record first, got %s", items[0].ProductID)
	}
	if items[0].ProductName == "" || items[0].Price.IsZero() {
		t.Errorf("expected joined catalog fields, got %+v", items[0])
	}

	items, total, err = repo.List(context.Background(), 1, 20, domain.StatusLowStock, false)
	if err != nil {
		t.Fatalf("List with status filter failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ProductID != "bigbuy-2" {
		t.Errorf("unexpected status-filtered result: total=%d items=%+v", total, items)
	}

	items, total, err = repo.List(context.Background(), 1, 20, "", true)
	if err != nil {
		t.Fatalf("List with lowStockOnly failed: %v", err)
	}
	// Records at or below their reorder point.
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 low-stock records, got total=%d len=%d", total, len(items))
	}
}

func TestInventoryListPaginates(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)
	now := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		seedInventory(t, domain.CompositeID("bigbuy", string(rune('a'+i))), 50, 10, domain.StatusInStock, now.Add(time.Duration(i)*time.Minute))
	}

	items, total, err := repo.List(context.Background(), 2, 2, "", false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected page of 2, got %d", len(items))
	}
}

func TestInventorySummary(t *testing.T) {
	truncateCatalog(t)
	repo := NewInventoryRepository(testDB)
	now := time.Now().UTC().Truncate(time.Second)

	seedInventory(t, "bigbuy-1", 0, 10, domain.StatusOutOfStock, now)
	seedInventory(t, "bigbuy-2", 5, 10, domain.StatusLowStock, now)
	seedInventory(t, "bigbuy-3", 100, 10, domain.StatusInStock, now)

	summary, err := repo.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if summary.TotalProducts != 3 || summary.TotalQuantity != 105 {
		t.Errorf("unexpected totals: %+v", summary)
	}
	if summary.LowStock != 1 || summary.OutOfStock != 1 {
		t.Errorf("unexpected status counts: %+v", summary)
	}
}
