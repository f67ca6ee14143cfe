package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/pkg/enums"
	"github.com/partslane/backoffice-backend/pkg/types"
)

// OrderLog is an append-only change-log row. Before/After hold the full
// tracked-field snapshots the audit diff renders; Status records the order
// status after the change so first-seen status dates can be derived.
type OrderLog struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Action    enums.LogAction   `gorm:"column:action;type:text;not null"`
	ActorID   uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	ActorName string            `gorm:"column:actor_name;not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Before    types.JSONMap     `gorm:"column:before;type:jsonb;serializer:json"`
	After     types.JSONMap     `gorm:"column:after;type:jsonb;serializer:json"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
