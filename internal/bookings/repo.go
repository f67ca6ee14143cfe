package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	"github.com/partslane/backoffice-backend/pkg/pagination"
)

// ListFilters narrow the bookings listing.
type ListFilters struct {
	Status       *enums.BookingStatus
	DepartmentID *uuid.UUID
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// Repository exposes booking persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new booking.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// FindByID loads a booking with its product and department.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Department").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update applies the provided column assignments.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a booking.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id).Error
}

// List returns bookings matching the filters ordered by visit time.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Preload("Product").
		Preload("Department")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DepartmentID != nil {
		query = query.Where("department_id = ?", *filters.DepartmentID)
	}
	if filters.From != nil {
		query = query.Where("scheduled_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("scheduled_at <= ?", *filters.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	err := query.
		Order("scheduled_at ASC").
		Limit(pagination.NormalizeLimit(filters.Limit)).
		Offset(pagination.NormalizeOffset(filters.Offset)).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}
