package audit

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an audit repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, log *models.OrderLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID, filters LogFilters) ([]models.OrderLog, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderLog{}).
		Where("order_id = ?", orderID)

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(actor_name) LIKE ? OR LOWER(action) LIKE ?", pattern, pattern)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.OrderLog
	err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(filters.Limit)).
		Offset(pagination.NormalizeOffset(filters.Offset)).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *repository) ListByOrderAsc(ctx context.Context, orderID uuid.UUID) ([]models.OrderLog, error) {
	var logs []models.OrderLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
