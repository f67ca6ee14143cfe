package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
)

// UserSummary is the user shape returned to clients; the password hash never
// leaves the service layer.
type UserSummary struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Phone        *string        `json:"phone,omitempty"`
	Role         enums.UserRole `json:"role"`
	DepartmentID *uuid.UUID     `json:"department_id,omitempty"`
	IsActive     bool           `json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// FromModel converts a persisted user into its API shape.
func FromModel(user *models.User) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}
}

// CreateInput captures a new staff or client account.
type CreateInput struct {
	Email        string         `json:"email" validate:"required,email"`
	Password     string         `json:"password" validate:"required,min=8"`
	FirstName    string         `json:"first_name" validate:"required"`
	LastName     string         `json:"last_name" validate:"required"`
	Phone        *string        `json:"phone,omitempty"`
	Role         enums.UserRole `json:"role" validate:"required"`
	DepartmentID *uuid.UUID     `json:"department_id,omitempty"`
}

// UpdateInput carries a partial user update; nil pointers leave the stored
// value untouched.
type UpdateInput struct {
	FirstName    *string         `json:"first_name,omitempty"`
	LastName     *string         `json:"last_name,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Role         *enums.UserRole `json:"role,omitempty"`
	DepartmentID *uuid.UUID      `json:"department_id,omitempty"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

// ListFilters narrow the user listing; Query matches name or email.
type ListFilters struct {
	Query        string
	Role         *enums.UserRole
	DepartmentID *uuid.UUID
	Limit        int
}
