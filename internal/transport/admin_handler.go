package transport

import (
	"net/http"
	"strconv"

	"dupp-api/internal/domain"
	"dupp-api/internal/middleware"
	"dupp-api/internal/service"
	"dupp-api/internal/supplier"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SupplierProductRequest is one normalized product in an import request body.
type SupplierProductRequest struct {
	ID                string             `json:"id"`
	Name              string             `json:"name" validate:"required"`
	Description       string             `json:"description"`
	Price             decimal.Decimal    `json:"price"`
	OriginalPrice     *decimal.Decimal   `json:"originalPrice"`
	Category          string             `json:"category"`
	Subcategory       string             `json:"subcategory"`
	Brand             string             `json:"brand"`
	Images            []string           `json:"images"`
	Stock             int                `json:"stock" validate:"gte=0"`
	Active            bool               `json:"active"`
	Weight            *float64           `json:"weight"`
	Dimensions        *domain.Dimensions `json:"dimensions"`
	EAN               string             `json:"ean"`
	SKU               string             `json:"sku"`
	SupplierProductID string             `json:"supplierProductId" validate:"required"`
}

// ImportRequest is the import endpoint's body.
type ImportRequest struct {
	Products []SupplierProductRequest `json:"products" validate:"required,dive"`
}

// SyncStockRequest is the stock sync endpoint's body.
type SyncStockRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,min=1,dive,required"`
}

// UpdateQuantityRequest is the inventory quantity endpoint's body. Quantity
// is a pointer so a missing field is distinguishable from zero.
type UpdateQuantityRequest struct {
	Quantity *int   `json:"quantity"`
	Reason   string `json:"reason"`
}

// SuppliersResponse lists the registered supplier names.
type SuppliersResponse struct {
	Suppliers []string `json:"suppliers"`
}

// AdminHandler handles the privileged back-office endpoints.
type AdminHandler struct {
	imports   service.ImportService
	inventory service.InventoryService
	analytics service.AnalyticsService
	access    service.AccessService
	registry  *supplier.Registry
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	imports service.ImportService,
	inventory service.InventoryService,
	analytics service.AnalyticsService,
	access service.AccessService,
	registry *supplier.Registry,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		imports:   imports,
		inventory: inventory,
		analytics: analytics,
		access:    access,
		registry:  registry,
		logger:    logger,
	}
}

// RegisterRoutes registers all admin routes behind the given middleware
func (h *AdminHandler) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		for _, mw := range mws {
			r.Use(mw)
		}

		r.Get("/suppliers", h.ListSuppliers)
		r.Post("/suppliers/{supplier}/import", h.ImportProducts)
		r.Post("/suppliers/{supplier}/sync-stock", h.SyncStock)
		r.Get("/import-logs", h.ListImportLogs)
		r.Get("/analytics", h.Dashboard)
		r.Get("/inventory", h.InventoryOverview)
		r.Put("/inventory/{productId}", h.UpdateInventoryQuantity)
	})
}

// ImportProducts handles a supplier catalog import
func (h *AdminHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admin, err := h.access.RequireAdmin(ctx, authFromRequest(r))
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	supplierName := chi.URLParam(r, "supplier")

	var req ImportRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Import request validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithServiceError(w, service.ErrValidation)
		return
	}

	products := make([]domain.SupplierProduct, 0, len(req.Products))
	for _, p := range req.Products {
		products = append(products, p.toDomain(supplierName))
	}

	result, err := h.imports.ImportProducts(ctx, supplierName, products, admin.ID.String())
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.access.LogAction(ctx, admin.ID.String(), "import_products", auditDetails(r, map[string]any{
		"supplier":       supplierName,
		"totalProcessed": len(products),
		"imported":       result.Imported,
		"updated":        result.Updated,
	}))

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// SyncStock handles a stock sync against a supplier
func (h *AdminHandler) SyncStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admin, err := h.access.RequireAdmin(ctx, authFromRequest(r))
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	supplierName := chi.URLParam(r, "supplier")

	var req SyncStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sync request validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithServiceError(w, service.ErrValidation)
		return
	}

	result, err := h.imports.SyncStock(ctx, supplierName, req.ProductIDs)
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.access.LogAction(ctx, admin.ID.String(), "sync_stock", auditDetails(r, map[string]any{
		"supplier":   supplierName,
		"productIds": len(req.ProductIDs),
	}))

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// ListSuppliers returns the registered supplier names
func (h *AdminHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.access.RequireAdmin(r.Context(), authFromRequest(r)); err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SuppliersResponse{Suppliers: h.registry.Names()})
}

// ListImportLogs returns recent import run summaries
func (h *AdminHandler) ListImportLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.access.RequireAdmin(ctx, authFromRequest(r)); err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.imports.RecentImports(ctx, limit)
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}

// Dashboard returns the aggregated dashboard analytics
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admin, err := h.access.RequireAdmin(ctx, authFromRequest(r))
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	period := r.URL.Query().Get("period")

	analytics, err := h.analytics.Dashboard(ctx, period)
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.access.LogAction(ctx, admin.ID.String(), "view_analytics", auditDetails(r, map[string]any{
		"period": analytics.Period,
	}))

	middleware.RespondWithJSON(w, http.StatusOK, analytics)
}

// InventoryOverview returns one page of the inventory listing
func (h *AdminHandler) InventoryOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.access.RequireAdmin(ctx, authFromRequest(r)); err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	lowStock := query.Get("lowStock") == "true"

	overview, err := h.inventory.Overview(ctx, page, limit, query.Get("status"), lowStock)
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, overview)
}

// UpdateInventoryQuantity sets one inventory record's quantity
func (h *AdminHandler) UpdateInventoryQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admin, err := h.access.RequireAdmin(ctx, authFromRequest(r))
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Quantity update validation failed", zap.Error(err))
		middleware.RespondWithServiceError(w, service.ErrValidation)
		return
	}

	record, err := h.inventory.UpdateQuantity(ctx, productID, req.Quantity)
	if err != nil {
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.access.LogAction(ctx, admin.ID.String(), "update_inventory_quantity", auditDetails(r, map[string]any{
		"productId": productID,
		"quantity":  record.Quantity,
		"reason":    req.Reason,
	}))

	middleware.RespondWithJSON(w, http.StatusOK, record)
}

// authFromRequest builds the caller identity from the authenticated request
// context. Returns nil when no identity is present.
func authFromRequest(r *http.Request) *service.AuthContext {
	uid, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil
	}
	return &service.AuthContext{UID: uid}
}

// auditDetails attaches the request origin to an audit detail map
func auditDetails(r *http.Request, details map[string]any) map[string]any {
	details["ip"] = r.RemoteAddr
	details["userAgent"] = r.UserAgent()
	return details
}

func (p SupplierProductRequest) toDomain(supplierName string) domain.SupplierProduct {
	id := p.ID
	if id == "" {
		id = p.SupplierProductID
	}

	return domain.SupplierProduct{
		ID:                id,
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
		Supplier:          supplierName,
		SupplierProductID: p.SupplierProductID,
	}
}
