package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
)

// CreateInput captures a new counter booking.
type CreateInput struct {
	ContactName  string     `json:"contact_name" validate:"required"`
	ContactPhone string     `json:"contact_phone" validate:"required"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	DepartmentID uuid.UUID  `json:"department_id" validate:"required"`
	ScheduledAt  time.Time  `json:"scheduled_at" validate:"required"`
	ScheduledTo  *time.Time `json:"scheduled_to,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// UpdateInput carries a partial booking update.
type UpdateInput struct {
	Status      *enums.BookingStatus `json:"status,omitempty"`
	ScheduledAt *time.Time           `json:"scheduled_at,omitempty"`
	ScheduledTo *time.Time           `json:"scheduled_to,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
}

// BookingList wraps a page of bookings plus the unpaged total.
type BookingList struct {
	Bookings []models.Booking `json:"bookings"`
	Total    int64            `json:"total"`
}

// Service defines booking operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) (*BookingList, error)
}

type service struct {
	repo *Repository
}

// NewService builds the bookings service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Booking, error) {
	name := strings.TrimSpace(input.ContactName)
	phone := strings.TrimSpace(input.ContactPhone)
	if name == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact name and phone required")
	}
	if input.DepartmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department required")
	}
	if input.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time required")
	}
	if input.ScheduledTo != nil && !input.ScheduledTo.After(input.ScheduledAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_to must follow scheduled_at")
	}

	booking := &models.Booking{
		ContactName:  name,
		ContactPhone: phone,
		ProductID:    input.ProductID,
		DepartmentID: input.DepartmentID,
		ScheduledAt:  input.ScheduledAt,
		ScheduledTo:  input.ScheduledTo,
		Status:       enums.BookingStatusPending,
		Notes:        input.Notes,
	}
	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	updates := map[string]any{}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid booking status %q", *input.Status))
		}
		if booking.Status == enums.BookingStatusCanceled && *input.Status != enums.BookingStatusCanceled {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "canceled bookings cannot be reopened")
		}
		updates["status"] = *input.Status
	}
	if input.ScheduledAt != nil {
		updates["scheduled_at"] = *input.ScheduledAt
	}
	if input.ScheduledTo != nil {
		updates["scheduled_to"] = *input.ScheduledTo
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking")
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete booking")
	}
	return nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*BookingList, error) {
	bookings, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return &BookingList{Bookings: bookings, Total: total}, nil
}
