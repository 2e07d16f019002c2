package products

import (
	"context"
	"fmt"
	"strings"

	baserepo "github.com/angelmondragon/mystore/internal/repo"
	"github.com/angelmondragon/mystore/pkg/db"
	"github.com/angelmondragon/mystore/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

// Service exposes the catalog endpoints of the storefront API.
type Service interface {
	List(ctx context.Context) ([]storeapi.Product, error)
	Get(ctx context.Context, id int64) (*storeapi.Product, error)
	Create(ctx context.Context, input storeapi.CreateProductRequest) (*storeapi.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a products service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]storeapi.Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]storeapi.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToWire(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*storeapi.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, baserepo.LookupError(err, "product", id)
	}
	product := ToWire(*row)
	return &product, nil
}

// Create validates money and stock fields and stores the product. Duplicate SKUs conflict.
func (s *service) Create(ctx context.Context, input storeapi.CreateProductRequest) (*storeapi.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"name": "is required"})
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"price": "must not be negative"})
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"stockQuantity": "must not be negative"})
	}

	row := &models.Product{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Category:      trimmedOrNil(input.Category),
		SKU:           trimmedOrNil(input.SKU),
		StockQuantity: input.StockQuantity,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	product := ToWire(*created)
	return &product, nil
}

// ToWire maps a stored product onto the API representation.
func ToWire(row models.Product) storeapi.Product {
	createdAt := row.CreatedAt
	updatedAt := row.UpdatedAt
	return storeapi.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         row.Price,
		ImageURL:      row.ImageURL,
		Category:      row.Category,
		SKU:           row.SKU,
		StockQuantity: row.StockQuantity,
		CreatedAt:     &createdAt,
		UpdatedAt:     &updatedAt,
	}
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
