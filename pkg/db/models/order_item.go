package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a single line on an order. DepartmentID is mandatory: items
// that cannot be resolved to a department are rejected before persistence.
type OrderItem struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID              uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	SKU                  string          `gorm:"column:sku;not null"`
	Title                string          `gorm:"column:title;not null"`
	Price                decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Brand                *string         `gorm:"column:brand"`
	Quantity             int             `gorm:"column:quantity;not null;default:1"`
	SupplierDeliveryDate *time.Time      `gorm:"column:supplier_delivery_date"`
	CarModel             *string         `gorm:"column:car_model"`
	VinCode              *string         `gorm:"column:vin_code"`
	DepartmentID         uuid.UUID       `gorm:"column:department_id;type:uuid;not null"`
	Position             int             `gorm:"column:position;not null;default:0"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
