package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry used for order item lookup/autocomplete.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU          string          `gorm:"column:sku;not null;uniqueIndex"`
	Title        string          `gorm:"column:title;not null"`
	Brand        *string         `gorm:"column:brand"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CategoryID   *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	DepartmentID *uuid.UUID      `gorm:"column:department_id;type:uuid"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	Category     *Category       `gorm:"foreignKey:CategoryID"`
	Department   *Department     `gorm:"foreignKey:DepartmentID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
