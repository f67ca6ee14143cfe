package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/pkg/enums"
)

// Booking reserves a counter visit for a client at a department.
type Booking struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContactName  string              `gorm:"column:contact_name;not null"`
	ContactPhone string              `gorm:"column:contact_phone;not null"`
	ProductID    *uuid.UUID          `gorm:"column:product_id;type:uuid"`
	DepartmentID uuid.UUID           `gorm:"column:department_id;type:uuid;not null"`
	ScheduledAt  time.Time           `gorm:"column:scheduled_at;not null"`
	ScheduledTo  *time.Time          `gorm:"column:scheduled_to"`
	Status       enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes        *string             `gorm:"column:notes"`
	Product      *Product            `gorm:"foreignKey:ProductID"`
	Department   *Department         `gorm:"foreignKey:DepartmentID"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
