package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	DepartmentID *uuid.UUID
	Role         enums.UserRole
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID       uuid.UUID      `json:"user_id"`
	DepartmentID *uuid.UUID     `json:"department_id,omitempty"`
	Role         enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
