package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE products (
  id TEXT PRIMARY KEY DEFAULT (
    lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' ||
    substr(lower(hex(randomblob(2))),2) || '-a' ||
    substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6)))
  ),
  sku TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  brand TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  category_id TEXT,
  department_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  parent_id TEXT
);`, `
CREATE TABLE departments (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL
);`, `
CREATE TABLE bookings (
  id TEXT PRIMARY KEY,
  contact_name TEXT NOT NULL,
  contact_phone TEXT NOT NULL,
  product_id TEXT,
  department_id TEXT NOT NULL,
  scheduled_at DATETIME,
  status TEXT NOT NULL DEFAULT 'pending',
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func productsFixture(t *testing.T) (Service, *Repository) {
	t.Helper()

	repo := NewRepository(setupProductsTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func seedProduct(t *testing.T, repo *Repository, sku string) *models.Product {
	t.Helper()

	product, err := repo.Create(context.Background(), &models.Product{
		ID:       uuid.New(),
		SKU:      sku,
		Title:    "Масляный фильтр",
		Price:    decimal.NewFromInt(700),
		IsActive: true,
	})
	require.NoError(t, err)
	return product
}

func TestServiceDelete_detachesBookings(t *testing.T) {
	svc, repo := productsFixture(t)
	product := seedProduct(t, repo, "F-100")

	bookingID := uuid.New()
	require.NoError(t, repo.db.Exec(
		"INSERT INTO bookings (id, contact_name, contact_phone, product_id, department_id) VALUES (?, ?, ?, ?, ?)",
		bookingID.String(), "Иван Петров", "+7 900 000-00-00", product.ID.String(), uuid.New().String(),
	).Error)

	require.NoError(t, svc.Delete(context.Background(), product.ID))

	_, err := repo.FindByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var detached int64
	require.NoError(t, repo.db.Model(&models.Booking{}).
		Where("id = ? AND product_id IS NULL", bookingID).
		Count(&detached).Error)
	assert.Equal(t, int64(1), detached, "booking keeps its slot without the product")
}

func TestServiceDelete_notFound(t *testing.T) {
	svc, _ := productsFixture(t)

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
