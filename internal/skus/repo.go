package skus

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/mystore/internal/repo"
	"github.com/angelmondragon/mystore/pkg/db/models"
)

type Repository interface {
	Create(ctx context.Context, sku *models.SKU) (*models.SKU, error)
	List(ctx context.Context) ([]models.SKU, error)
	ListByProduct(ctx context.Context, productID int64) ([]models.SKU, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, sku *models.SKU) (*models.SKU, error) {
	if err := r.DB(ctx).Omit("Product").Create(sku).Error; err != nil {
		return nil, err
	}
	return sku, nil
}

func (r *repository) List(ctx context.Context) ([]models.SKU, error) {
	var rows []models.SKU
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]models.SKU, error) {
	var rows []models.SKU
	if err := r.DB(ctx).Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
