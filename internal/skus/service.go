package skus

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

type productFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service manages stock keeping units for the admin surface.
type Service interface {
	List(ctx context.Context, productID int64) ([]storeapi.SKU, error)
	Create(ctx context.Context, input storeapi.CreateSKURequest) (*storeapi.SKU, error)
}

type service struct {
	repo     Repository
	products productFinder
}

func NewService(repo Repository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("skus repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products}, nil
}

// List returns every SKU, or only those of productID when it is positive.
func (s *service) List(ctx context.Context, productID int64) ([]storeapi.SKU, error) {
	var (
		rows []models.SKU
		err  error
	)
	if productID > 0 {
		rows, err = s.repo.ListByProduct(ctx, productID)
	} else {
		rows, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list skus")
	}
	out := make([]storeapi.SKU, 0, len(rows))
	for _, row := range rows {
		out = append(out, toWire(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input storeapi.CreateSKURequest) (*storeapi.SKU, error) {
	code := strings.TrimSpace(input.Code)
	details := map[string]string{}
	if input.ProductID < 1 {
		details["productId"] = "is required"
	}
	if code == "" {
		details["code"] = "is required"
	}
	if input.StockQuantity < 0 {
		details["stockQuantity"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		return nil, baserepo.LookupError(err, "product", input.ProductID)
	}

	created, err := s.repo.Create(ctx, &models.SKU{
		ProductID:     input.ProductID,
		Code:          code,
		StockQuantity: input.StockQuantity,
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, ""):
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "sku code %q already exists", code)
		case db.IsForeignKeyViolation(err):
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", input.ProductID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sku")
	}
	sku := toWire(*created)
	return &sku, nil
}

func toWire(row models.SKU) storeapi.SKU {
	return storeapi.SKU{
		ID:            row.ID,
		ProductID:     row.ProductID,
		Code:          row.Code,
		StockQuantity: row.StockQuantity,
		CreatedAt:     row.CreatedAt,
	}
}
