package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
)

// CreateInput captures a new catalog entry.
type CreateInput struct {
	SKU          string          `json:"sku" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Brand        *string         `json:"brand,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	DepartmentID *uuid.UUID      `json:"department_id,omitempty"`
}

// UpdateInput carries a partial product update.
type UpdateInput struct {
	Title        *string          `json:"title,omitempty"`
	Brand        *string          `json:"brand,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CategoryID   *uuid.UUID       `json:"category_id,omitempty"`
	DepartmentID *uuid.UUID       `json:"department_id,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

// Service defines product catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService builds the products service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	title := strings.TrimSpace(input.Title)
	if sku == "" || title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and title required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup sku")
	}

	product := &models.Product{
		SKU:          sku,
		Title:        title,
		Brand:        input.Brand,
		Price:        input.Price,
		CategoryID:   input.CategoryID,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
		updates["title"] = title
	}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.CategoryID != nil {
		if *input.CategoryID == uuid.Nil {
			updates["category_id"] = nil
		} else {
			updates["category_id"] = *input.CategoryID
		}
	}
	if input.DepartmentID != nil {
		if *input.DepartmentID == uuid.Nil {
			updates["department_id"] = nil
		} else {
			updates["department_id"] = *input.DepartmentID
		}
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}
