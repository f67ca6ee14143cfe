package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderComment is a free-text note on an order, editable at any status.
type OrderComment struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	AuthorID  *uuid.UUID `gorm:"column:author_id;type:uuid"`
	Body      string     `gorm:"column:body;not null"`
	Position  int        `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
