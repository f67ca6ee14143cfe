package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
)

// LogFilters narrow an order's change-log listing.
type LogFilters struct {
	Search string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Repository defines persistence operations for order change logs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, log *models.OrderLog) error
	ListByOrder(ctx context.Context, orderID uuid.UUID, filters LogFilters) ([]models.OrderLog, int64, error)
	ListByOrderAsc(ctx context.Context, orderID uuid.UUID) ([]models.OrderLog, error)
}
