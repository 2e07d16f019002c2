package models

import "time"

// SKU is a stock keeping unit attached to a product.
type SKU struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID     int64     `gorm:"column:product_id;not null;index"`
	Product       *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Code          string    `gorm:"column:code;not null;uniqueIndex:skus_code_key"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SKU) TableName() string {
	return "skus"
}
