package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

const (
	productsPath = "/api/products"
	ordersPath   = "/api/orders"
	skusPath     = "/api/skus"

	// IdempotencyHeader carries the draft id on order submissions.
	IdempotencyHeader = "Idempotency-Key"

	defaultTimeout              = 10 * time.Second
	errorBodyReadLimit    int64 = 4096
	responseBodyReadLimit int64 = 8 << 20
)

var errBaseURLRequired = errors.New("storefront api base url is required")

// Client talks to the storefront HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a client rooted at baseURL (for example http://localhost:8080).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, productsPath, nil, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// CreateProduct registers a new catalog product (admin).
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, productsPath, nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrder submits an order. A non-empty idempotencyKey is sent as the Idempotency-Key header.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest, idempotencyKey string) (*OrderResponse, error) {
	headers := map[string]string{}
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		headers[IdempotencyHeader] = key
	}

	var resp OrderResponse
	if err := c.do(ctx, http.MethodPost, ordersPath, headers, req, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order response missing orderId")
	}
	return &resp, nil
}

// GetOrder loads a placed order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var order Order
	if err := c.do(ctx, http.MethodGet, ordersPath+"/"+url.PathEscape(trimmed), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListSKUs returns every SKU (admin).
func (c *Client) ListSKUs(ctx context.Context) ([]SKU, error) {
	var skus []SKU
	if err := c.do(ctx, http.MethodGet, skusPath, nil, nil, &skus); err != nil {
		return nil, err
	}
	if skus == nil {
		skus = []SKU{}
	}
	return skus, nil
}

// CreateSKU registers a SKU for an existing product (admin).
func (c *Client) CreateSKU(ctx context.Context, req CreateSKURequest) (*SKU, error) {
	var sku SKU
	if err := c.do(ctx, http.MethodPost, skusPath, nil, req, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "storefront api client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "malformed response").WithDetails(map[string]any{
			"method": method,
			"path":   path,
		})
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	details := map[string]any{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}

	message := fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode)
	var envelope ErrorBody
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		details["remote_code"] = envelope.Error.Code
		details["remote_message"] = envelope.Error.Message
		if envelope.Error.Details != nil {
			details["remote_details"] = envelope.Error.Details
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		details["body"] = text
	}

	return pkgerrors.New(pkgerrors.CodeDependency, message).WithDetails(details)
}
