package storeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mystore/pkg/enums"
)

// UseNumericPrices makes decimal values encode as JSON numbers, the form the storefront
// API uses for prices and totals. shopspring/decimal keeps this switch process-wide, so
// binaries call it once at startup before any encoding happens.
func UseNumericPrices() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the catalog entry returned by GET /api/products.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	Category      *string         `json:"category,omitempty"`
	SKU           *string         `json:"sku,omitempty"`
	StockQuantity *int            `json:"stockQuantity,omitempty"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// CreateProductRequest is the admin payload for POST /api/products.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	Category      *string         `json:"category,omitempty"`
	SKU           *string         `json:"sku,omitempty"`
	StockQuantity *int            `json:"stockQuantity,omitempty" validate:"omitempty,min=0"`
}

type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type UserDetails struct {
	Name    string  `json:"name" validate:"required"`
	Address Address `json:"address"`
}

type OrderItem struct {
	ProductID   int64           `json:"productId" validate:"required,min=1"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	UserDetails UserDetails     `json:"userDetails"`
	Items       []OrderItem     `json:"items" validate:"required,min=1,dive"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResponse carries the identifier of a placed order.
type OrderResponse struct {
	OrderID OrderID `json:"orderId"`
}

// OrderID accepts either a JSON string or a JSON number.
type OrderID string

func (id *OrderID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = OrderID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("orderId must be a string or number: %w", err)
	}
	*id = OrderID(n.String())
	return nil
}

func (id OrderID) String() string {
	return string(id)
}

// Order is the persisted order returned by GET /api/orders/{orderId}.
type Order struct {
	ID          int64             `json:"id"`
	Status      enums.OrderStatus `json:"status"`
	UserDetails UserDetails       `json:"userDetails"`
	Items       []OrderItem       `json:"items"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	Tax         decimal.Decimal   `json:"tax"`
	Total       decimal.Decimal   `json:"total"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type SKU struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	Code          string    `json:"code"`
	StockQuantity int       `json:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateSKURequest struct {
	ProductID     int64  `json:"productId" validate:"required,min=1"`
	Code          string `json:"code" validate:"required"`
	StockQuantity int    `json:"stockQuantity" validate:"min=0"`
}

// APIError is the body of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorBody is the error envelope written by the storefront API.
type ErrorBody struct {
	Error APIError `json:"error"`
}

// DataEnvelope wraps operational payloads such as health checks. Catalog and order
// endpoints answer with bare JSON.
type DataEnvelope struct {
	Data any `json:"data"`
}
