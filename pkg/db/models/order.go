package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mystore/pkg/enums"
)

// Order is a placed storefront order with the shipping snapshot inlined.
type Order struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'PENDING'"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	Street       string            `gorm:"column:street;not null"`
	City         string            `gorm:"column:city;not null"`
	State        string            `gorm:"column:state;not null"`
	PostalCode   string            `gorm:"column:postal_code;not null"`
	Country      string            `gorm:"column:country;not null"`
	Subtotal     decimal.Decimal   `gorm:"column:subtotal;type:numeric(14,4);not null"`
	Tax          decimal.Decimal   `gorm:"column:tax;type:numeric(14,4);not null"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(14,4);not null"`
	Items        []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots the unit price a product had when the order was placed.
type OrderItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"column:order_id;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(12,4);not null"`
}

// All lists every model for sqlite AutoMigrate.
func All() []any {
	return []any{&Product{}, &SKU{}, &Order{}, &OrderItem{}}
}
