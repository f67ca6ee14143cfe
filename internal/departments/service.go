package departments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
)

// CreateInput captures a new branch.
type CreateInput struct {
	Name    string  `json:"name" validate:"required"`
	Address string  `json:"address" validate:"required"`
	Phone   *string `json:"phone,omitempty"`
}

// UpdateInput carries a partial department update.
type UpdateInput struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Service defines department management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Department, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Department, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]models.Department, error)
}

type service struct {
	repo *Repository
}

// NewService builds the departments service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("departments repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Department, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and address required")
	}

	department := &models.Department{
		Name:     name,
		Address:  address,
		Phone:    input.Phone,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, department)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create department")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Department, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update department")
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department id required")
	}
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "department not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load department")
	}
	return department, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "department id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "department not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load department")
	}

	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check department references")
	}
	if inUse {
		return pkgerrors.New(pkgerrors.CodeConflict, "department is still referenced, deactivate it instead")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete department")
	}
	return nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Department, error) {
	departments, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list departments")
	}
	return departments, nil
}
