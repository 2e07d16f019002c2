package storefront

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

// Product is a catalog entry as the storefront sees it. Values are immutable once fetched.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	ImageURL      string
	Category      *string
	SKU           *string
	StockQuantity *int
}

func productFromWire(p storeapi.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		Category:      cloneString(p.Category),
		SKU:           cloneString(p.SKU),
		StockQuantity: cloneInt(p.StockQuantity),
	}
}

// ProductDraft is a partially filled admin product form. Every field is optional until Promote.
type ProductDraft struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	ImageURL      *string
	Category      *string
	SKU           *string
	StockQuantity *int
}

// Validate reports every missing or out-of-range field at once.
func (d ProductDraft) Validate() error {
	details := map[string]string{}
	if d.Name == nil || strings.TrimSpace(*d.Name) == "" {
		details["name"] = "is required"
	}
	if d.Price == nil {
		details["price"] = "is required"
	} else if d.Price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if d.StockQuantity != nil && *d.StockQuantity < 0 {
		details["stockQuantity"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product draft is incomplete").WithDetails(details)
	}
	return nil
}

// Promote turns a validated draft into a create request. Absent optional text fields become empty strings.
func (d ProductDraft) Promote() (storeapi.CreateProductRequest, error) {
	if err := d.Validate(); err != nil {
		return storeapi.CreateProductRequest{}, err
	}
	return storeapi.CreateProductRequest{
		Name:          strings.TrimSpace(*d.Name),
		Description:   valueOrEmpty(d.Description),
		Price:         *d.Price,
		ImageURL:      valueOrEmpty(d.ImageURL),
		Category:      trimmedOrNil(d.Category),
		SKU:           trimmedOrNil(d.SKU),
		StockQuantity: cloneInt(d.StockQuantity),
	}, nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
