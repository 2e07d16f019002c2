package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog listing served by GET /api/products.
type Product struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string          `gorm:"column:name;not null"`
	Description   string          `gorm:"column:description;not null;default:''"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,4);not null"`
	ImageURL      string          `gorm:"column:image_url;not null;default:''"`
	Category      *string         `gorm:"column:category"`
	SKU           *string         `gorm:"column:sku;uniqueIndex:products_sku_key"`
	StockQuantity *int            `gorm:"column:stock_quantity"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
