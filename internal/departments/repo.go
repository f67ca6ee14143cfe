package departments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
)

// Repository exposes department persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a departments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new department.
func (r *Repository) Create(ctx context.Context, department *models.Department) (*models.Department, error) {
	if err := r.db.WithContext(ctx).Create(department).Error; err != nil {
		return nil, err
	}
	return department, nil
}

// FindByID loads a department by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// Update applies the provided column assignments.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Department{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// InUse reports whether any user, product, booking or order still points at
// the department.
func (r *Repository) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, model := range []any{
		&models.User{},
		&models.Product{},
		&models.Booking{},
		&models.Order{},
	} {
		var count int64
		err := r.db.WithContext(ctx).
			Model(model).
			Where("department_id = ?", id).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes a department.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id).Error
}

// List returns departments ordered by name. When activeOnly is set,
// deactivated branches are filtered out.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Department, error) {
	query := r.db.WithContext(ctx).Model(&models.Department{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var departments []models.Department
	if err := query.Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}
