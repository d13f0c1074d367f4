package bigbuy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dupp-api/internal/config"
	"dupp-api/internal/domain"
	"dupp-api/internal/supplier"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Name is the registry key for this adapter and the prefix of composite
// product ids it produces.
const Name = "bigbuy"

// upstreamRequestLimit bounds requests per second against the BigBuy API.
const upstreamRequestLimit = 3

// Client talks to the BigBuy dropshipping catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	configured bool
}

// New builds a BigBuy client from the supplier config. A missing API key
// leaves the client unconfigured; construction never fails so the process can
// start with degraded supplier availability.
func New(cfg config.SupplierConfig, logger *zap.Logger) *Client {
	configured := cfg.APIKey != ""
	if !configured {
		logger.Warn("BigBuy API key not set, adapter disabled", zap.String("supplier", Name))
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		http:       &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(upstreamRequestLimit), upstreamRequestLimit),
		logger:     logger,
		configured: configured,
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) IsConfigured() bool { return c.configured }

// SearchProducts queries the BigBuy catalog. The limit is capped at
// supplier.MaxSearchLimit regardless of what was asked for.
func (c *Client) SearchProducts(ctx context.Context, query, category string, limit int) ([]domain.SupplierProduct, error) {
	if limit <= 0 || limit > supplier.MaxSearchLimit {
		limit = supplier.MaxSearchLimit
	}

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(limit))
	if query != "" {
		params.Set("search", query)
	}
	if category != "" {
		params.Set("category", category)
	}

	var products []productPayload
	if err := c.getJSON(ctx, "searchProducts", "/rest/catalog/products.json?"+params.Encode(), &products); err != nil {
		return nil, err
	}

	normalized := make([]domain.SupplierProduct, 0, len(products))
	for _, p := range products {
		normalized = append(normalized, p.normalize())
	}
	return normalized, nil
}

// GetProductDetails fetches one product by its BigBuy id.
func (c *Client) GetProductDetails(ctx context.Context, supplierProductID string) (*domain.SupplierProduct, error) {
	var p productPayload
	path := fmt.Sprintf("/rest/catalog/product/%s.json", url.PathEscape(supplierProductID))
	if err := c.getJSON(ctx, "getProductDetails", path, &p); err != nil {
		return nil, err
	}

	product := p.normalize()
	return &product, nil
}

// CheckStock returns the summed warehouse stock for one BigBuy id. An
// unexpected payload shape yields 0 rather than an error.
func (c *Client) CheckStock(ctx context.Context, supplierProductID string) (int, error) {
	path := fmt.Sprintf("/rest/catalog/productstock/%s.json", url.PathEscape(supplierProductID))

	body, err := c.get(ctx, "checkStock", path)
	if err != nil {
		return 0, err
	}

	var payload stockPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Debug("Unexpected stock payload shape, reporting zero",
			zap.String("supplier", Name),
			zap.String("product_id", supplierProductID),
			zap.Error(err),
		)
		return 0, nil
	}

	total := 0
	for _, s := range payload.Stocks {
		if s.Quantity > 0 {
			total += s.Quantity
		}
	}
	return total, nil
}

// SyncStock checks stock for up to supplier.MaxSyncBatch composite ids. The
// "bigbuy-" prefix is stripped to recover native ids; per-item failures are
// reported inline and never abort the batch.
func (c *Client) SyncStock(ctx context.Context, productIDs []string) ([]supplier.StockResult, error) {
	if len(productIDs) > supplier.MaxSyncBatch {
		c.logger.Warn("Stock sync batch truncated",
			zap.String("supplier", Name),
			zap.Int("requested", len(productIDs)),
			zap.Int("processed", supplier.MaxSyncBatch),
		)
		productIDs = productIDs[:supplier.MaxSyncBatch]
	}

	results := make([]supplier.StockResult, 0, len(productIDs))
	for _, id := range productIDs {
		nativeID := strings.TrimPrefix(id, Name+"-")

		stock, err := c.CheckStock(ctx, nativeID)
		if err != nil {
			c.logger.Warn("Stock check failed",
				zap.String("supplier", Name),
				zap.String("product_id", id),
				zap.Error(err),
			)
			results = append(results, supplier.StockResult{ProductID: id, Stock: 0, Success: false})
			continue
		}

		results = append(results, supplier.StockResult{ProductID: id, Stock: stock, Success: true})
	}

	return results, nil
}

// GetCategories fetches the BigBuy category taxonomy.
func (c *Client) GetCategories(ctx context.Context) ([]supplier.Category, error) {
	var payload []categoryPayload
	if err := c.getJSON(ctx, "getCategories", "/rest/catalog/categories.json", &payload); err != nil {
		return nil, err
	}

	categories := make([]supplier.Category, 0, len(payload))
	for _, cat := range payload {
		category := supplier.Category{
			ID:   strconv.FormatInt(cat.ID, 10),
			Name: cat.Name,
		}
		if cat.ParentID != 0 {
			category.ParentID = strconv.FormatInt(cat.ParentID, 10)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// get performs a rate-limited authenticated GET and returns the body for 2xx
// responses.
func (c *Client) get(ctx context.Context, operation, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &supplier.UpstreamError{Supplier: Name, Operation: operation, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &supplier.UpstreamError{Supplier: Name, Operation: operation, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &supplier.UpstreamError{
			Supplier:   Name,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, v any) error {
	body, err := c.get(ctx, operation, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &supplier.UpstreamError{Supplier: Name, Operation: operation, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// productPayload mirrors the fields of a BigBuy catalog product we consume.
type productPayload struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	WholesalePrice float64 `json:"wholesalePrice"`
	RetailPrice    float64 `json:"retailPrice"`
	Category       string  `json:"category"`
	Subcategory    string  `json:"subcategory"`
	Brand          string  `json:"brand"`
	Images         []struct {
		URL string `json:"url"`
	} `json:"images"`
	Quantity int     `json:"quantity"`
	Active   bool    `json:"active"`
	Weight   float64 `json:"weight"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
	EAN13    string  `json:"ean13"`
	SKU      string  `json:"sku"`
}

type stockPayload struct {
	ID     int64 `json:"id"`
	Stocks []struct {
		Quantity int `json:"quantity"`
	} `json:"stocks"`
}

type categoryPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parentId"`
}

func (p productPayload) normalize() domain.SupplierProduct {
	id := strconv.FormatInt(p.ID, 10)

	product := domain.SupplierProduct{
		ID:                id,
		Name:              p.Name,
		Description:       p.Description,
		Price:             decimal.NewFromFloat(p.RetailPrice),
		Category:          p.Category,
		Subcategory:       p.Subcategory,
		Brand:             p.Brand,
		Stock:             p.Quantity,
		Active:            p.Active,
		EAN:               p.EAN13,
		SKU:               p.SKU,
		Supplier:          Name,
		SupplierProductID: id,
	}

	if p.WholesalePrice > 0 {
		wholesale := decimal.NewFromFloat(p.WholesalePrice)
		product.OriginalPrice = &wholesale
	}
	if p.Weight > 0 {
		weight := p.Weight
		product.Weight = &weight
	}
	if p.Width > 0 || p.Depth > 0 || p.Height > 0 {
		product.Dimensions = &domain.Dimensions{Length: p.Depth, Width: p.Width, Height: p.Height}
	}
	for _, img := range p.Images {
		product.Images = append(product.Images, img.URL)
	}

	return product
}
