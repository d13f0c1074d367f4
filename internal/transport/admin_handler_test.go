package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dupp-api/internal/domain"
	"dupp-api/internal/middleware"
	"dupp-api/internal/repository"
	"dupp-api/internal/service"
	"dupp-api/internal/supplier"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stub services so the handler tests stay at the HTTP layer.

type stubAccess struct {
	admin      *domain.User
	requireErr error
	actions    []string
	details    []map[string]any
}

func (s *stubAccess) require(auth *service.AuthContext) (*domain.User, error) {
	if auth == nil || auth.UID == "" {
		return nil, service.ErrAuthenticationRequired
	}
	if s.requireErr != nil {
		return nil, s.requireErr
	}
	return s.admin, nil
}

func (s *stubAccess) RequireAdmin(ctx context.Context, auth *service.AuthContext) (*domain.User, error) {
	return s.require(auth)
}

func (s *stubAccess) RequireRole(ctx context.Context, auth *service.AuthContext, role string) (*domain.User, error) {
	return s.require(auth)
}

func (s *stubAccess) RequirePremiumOrAdmin(ctx context.Context, auth *service.AuthContext) (*domain.User, error) {
	return s.require(auth)
}

func (s *stubAccess) LogAction(ctx context.Context, adminUID, action string, details map[string]any) {
	s.actions = append(s.actions, action)
	s.details = append(s.details, details)
}

type stubImports struct {
	importResult *service.ImportResult
	importErr    error
	gotSupplier  string
	gotProducts  []domain.SupplierProduct

	syncResult *service.SyncResult
	syncErr    error
	gotIDs     []string

	logEntries []*domain.ImportLogEntry
}

func (s *stubImports) ImportProducts(ctx context.Context, supplierName string, products []domain.SupplierProduct, adminUID string) (*service.ImportResult, error) {
	s.gotSupplier = supplierName
	s.gotProducts = products
	return s.importResult, s.importErr
}

func (s *stubImports) SyncStock(ctx context.Context, supplierName string, productIDs []string) (*service.SyncResult, error) {
	s.gotSupplier = supplierName
	s.gotIDs = productIDs
	return s.syncResult, s.syncErr
}

func (s *stubImports) RecentImports(ctx context.Context, limit int) ([]*domain.ImportLogEntry, error) {
	return s.logEntries, nil
}

type stubInventory struct {
	overview    *service.InventoryOverview
	record      *domain.InventoryRecord
	updateErr   error
	gotQuantity *int
}

func (s *stubInventory) Overview(ctx context.Context, page, pageSize int, status string, lowStockOnly bool) (*service.InventoryOverview, error) {
	return s.overview, nil
}

func (s *stubInventory) UpdateQuantity(ctx context.Context, productID string, quantity *int) (*domain.InventoryRecord, error) {
	s.gotQuantity = quantity
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.record, nil
}

type stubAnalytics struct{}

func (s *stubAnalytics) Dashboard(ctx context.Context, period string) (*service.DashboardAnalytics, error) {
	if period == "" {
		period = "30d"
	}
	if period != "7d" && period != "30d" && period != "90d" {
		return nil, fmt.Errorf("unknown period %q: %w", period, service.ErrValidation)
	}
	return &service.DashboardAnalytics{Period: period}, nil
}

type handlerFixture struct {
	router    *chi.Mux
	access    *stubAccess
	imports   *stubImports
	inventory *stubInventory
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	admin := &domain.User{ID: uuid.New(), Email: "admin@dupp.test", Role: domain.RoleAdmin}
	access := &stubAccess{admin: admin}
	imports := &stubImports{
		importResult: &service.ImportResult{Success: true, Imported: 1, Errors: []string{}},
		syncResult:   &service.SyncResult{Success: true},
	}
	inventory := &stubInventory{
		overview: &service.InventoryOverview{Summary: &domain.InventorySummary{}, Page: 1, PageSize: 20},
		record:   &domain.InventoryRecord{ProductID: "bigbuy-55", Quantity: 5, Status: domain.StatusLowStock},
	}

	registry := supplier.NewRegistry()

	handler := NewAdminHandler(imports, inventory, &stubAnalytics{}, access, registry, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &handlerFixture{router: router, access: access, imports: imports, inventory: inventory}
}

// asAdmin attaches the uid the auth middleware would have put on the context.
func asAdmin(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.NewString())
	return req.WithContext(ctx)
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestImportRequiresAuth(t *testing.T) {
	f := newHandlerFixture(t)

	req := jsonRequest(http.MethodPost, "/api/admin/suppliers/bigbuy/import", ImportRequest{})
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without auth, got %d", rec.Code)
	}
}

func TestImportForbiddenForNonAdmin(t *testing.T) {
	f := newHandlerFixture(t)
	f.access.requireErr = service.ErrAdminRequired

	req := asAdmin(jsonRequest(http.MethodPost, "/api/admin/suppliers/bigbuy/import", ImportRequest{}))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestImportHappyPath(t *testing.T) {
	f := newHandlerFixture(t)

	body := ImportRequest{Products: []SupplierProductRequest{
		{Name: "Vase", SupplierProductID: "55", Stock: 3},
	}}
	req := asAdmin(jsonRequest(http.MethodPost, "/api/admin/suppliers/bigbuy/import", body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if f.imports.gotSupplier != "bigbuy" {
		t.Errorf("expected supplier from path, got %q", f.imports.gotSupplier)
	}
	if len(f.imports.gotProducts) != 1 || f.imports.gotProducts[0].Supplier != "bigbuy" {
		t.Errorf("unexpected products passed to the service: %+v", f.imports.gotProducts)
	}

	if len(f.access.actions) != 1 || f.access.actions[0] != "import_products" {
		t.Errorf("expected one import_products audit action, got %v", f.access.actions)
	}
	if ip := f.access.details[0]["ip"]; ip == "" || ip == nil {
		t.Error("expected request address attached to audit details")
	}

	var result service.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.Success || result.Imported != 1 {
		t.Errorf("unexpected result body: %+v", result)
	}
}

func TestImportValidationFailure(t *testing.T) {
	f := newHandlerFixture(t)

	// Product without name or supplierProductId.
	body := ImportRequest{Products: []SupplierProductRequest{{Stock: 3}}}
	req := asAdmin(jsonRequest(http.MethodPost, "/api/admin/suppliers/bigbuy/import", body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", rec.Code)
	}
	if len(f.access.actions) != 0 {
		t.Errorf("rejected request should not be audited, got %v", f.access.actions)
	}
}

func TestSyncStockUnknownSupplierIs404(t *testing.T) {
	f := newHandlerFixture(t)
	f.imports.syncErr = fmt.Errorf("supplier acme not found: %w", service.ErrSupplierNotFound)

	body := SyncStockRequest{ProductIDs: []string{"acme-1"}}
	req := asAdmin(jsonRequest(http.MethodPost, "/api/admin/suppliers/acme/sync-stock", body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown supplier, got %d", rec.Code)
	}
}

func TestSyncStockEmptyIDsRejected(t *testing.T) {
	f := newHandlerFixture(t)

	body := SyncStockRequest{ProductIDs: []string{}}
	req := asAdmin(jsonRequest(http.MethodPost, "/api/admin/suppliers/bigbuy/sync-stock", body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty id list, got %d", rec.Code)
	}
}

func TestSyncStockHappyPath(t *testing.T) {
	f := newHandlerFixture(t)
	f.imports.syncResult = &service.SyncResult{
		Success: true,
		Results: []supplier.StockResult{{ProductID: "bigbuy-55", Stock: 3, Success: true}},
	}

	body := SyncStockRequest{ProductIDs: []string{"bigbuy-55"}}
	req := asAdmin(jsonRequest(http.MethodPost, "/api/admin/suppliers/bigbuy/sync-stock", body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.imports.gotIDs) != 1 || f.imports.gotIDs[0] != "bigbuy-55" {
		t.Errorf("unexpected ids passed through: %v", f.imports.gotIDs)
	}
	if len(f.access.actions) != 1 || f.access.actions[0] != "sync_stock" {
		t.Errorf("expected sync_stock audit action, got %v", f.access.actions)
	}
}

func TestUpdateInventoryQuantity(t *testing.T) {
	f := newHandlerFixture(t)

	quantity := 5
	req := asAdmin(jsonRequest(http.MethodPut, "/api/admin/inventory/bigbuy-55", UpdateQuantityRequest{Quantity: &quantity, Reason: "recount"}))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.inventory.gotQuantity == nil || *f.inventory.gotQuantity != 5 {
		t.Errorf("expected quantity 5 passed to service, got %v", f.inventory.gotQuantity)
	}
	if len(f.access.actions) != 1 || f.access.actions[0] != "update_inventory_quantity" {
		t.Errorf("expected update_inventory_quantity audit action, got %v", f.access.actions)
	}
}

func TestUpdateInventoryQuantityValidation(t *testing.T) {
	f := newHandlerFixture(t)
	f.inventory.updateErr = fmt.Errorf("quantity is required: %w", service.ErrValidation)

	req := asAdmin(jsonRequest(http.MethodPut, "/api/admin/inventory/bigbuy-55", UpdateQuantityRequest{Reason: "oops"}))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing quantity, got %d", rec.Code)
	}
}

func TestUpdateInventoryQuantityNotFound(t *testing.T) {
	f := newHandlerFixture(t)
	f.inventory.updateErr = fmt.Errorf("load after update: %w", repository.ErrInventoryNotFound)

	quantity := 5
	req := asAdmin(jsonRequest(http.MethodPut, "/api/admin/inventory/bigbuy-404", UpdateQuantityRequest{Quantity: &quantity}))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	f := newHandlerFixture(t)

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/analytics?period=7d", nil))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var analytics service.DashboardAnalytics
	if err := json.Unmarshal(rec.Body.Bytes(), &analytics); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if analytics.Period != "7d" {
		t.Errorf("expected period 7d, got %s", analytics.Period)
	}
	if len(f.access.actions) != 1 || f.access.actions[0] != "view_analytics" {
		t.Errorf("expected view_analytics audit action, got %v", f.access.actions)
	}
}

func TestDashboardUnknownPeriod(t *testing.T) {
	f := newHandlerFixture(t)

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/analytics?period=365d", nil))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown period, got %d", rec.Code)
	}
}

func TestListSuppliers(t *testing.T) {
	f := newHandlerFixture(t)

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/suppliers", nil))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp SuppliersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Suppliers) != 0 {
		t.Errorf("expected empty supplier list, got %v", resp.Suppliers)
	}
}
