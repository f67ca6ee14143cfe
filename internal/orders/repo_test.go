package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	"github.com/partslane/backoffice-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE departments (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'viewer',
  department_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL DEFAULT 'created',
  client_id TEXT,
  manager_id TEXT,
  department_id TEXT,
  contact_name TEXT,
  contact_phone TEXT,
  confirmation_date DATETIME,
  final_delivery_date DATETIME,
  booked_until DATETIME,
  ready_until DATETIME,
  prepayment_amount TEXT,
  prepayment_date DATETIME,
  payment_date DATETIME,
  order_amount TEXT,
  completion_date DATETIME,
  return_reason TEXT,
  return_date DATETIME,
  return_amount TEXT,
  return_payment_date DATETIME,
  return_document_number TEXT,
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  title TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  brand TEXT,
  quantity INTEGER NOT NULL DEFAULT 1,
  supplier_delivery_date DATETIME,
  car_model TEXT,
  vin_code TEXT,
  department_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_comments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  author_id TEXT,
  body TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, created time.Time, mutate func(*models.Order)) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:        uuid.New(),
		Status:    status,
		Version:   1,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if mutate != nil {
		mutate(order)
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedItem(t *testing.T, db *gorm.DB, orderID, deptID uuid.UUID, position int, sku string) {
	t.Helper()

	item := &models.OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		SKU:          sku,
		Title:        "Деталь " + sku,
		Price:        decimal.NewFromInt(1000),
		Quantity:     1,
		DepartmentID: deptID,
		Position:     position,
	}
	require.NoError(t, db.Create(item).Error)
}

func TestRepositoryFindByID_preloadsInPositionOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	dept := &models.Department{ID: uuid.New(), Name: "Центральный", Address: "ул. Ленина, 1", IsActive: true}
	require.NoError(t, db.Create(dept).Error)

	order := seedOrder(t, db, enums.OrderStatusCreated, time.Now().UTC(), func(o *models.Order) {
		o.DepartmentID = &dept.ID
	})
	seedItem(t, db, order.ID, dept.ID, 1, "B-2")
	seedItem(t, db, order.ID, dept.ID, 0, "A-1")

	comment := &models.OrderComment{ID: uuid.New(), OrderID: order.ID, Body: "перезвонить", Position: 0}
	require.NoError(t, db.Create(comment).Error)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "A-1", found.Items[0].SKU)
	assert.Equal(t, "B-2", found.Items[1].SKU)
	require.Len(t, found.Comments, 1)
	require.NotNil(t, found.Department)
	assert.Equal(t, "ул. Ленина, 1", found.Department.Address)
}

func TestRepositoryFindByID_missing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdate_appliesColumns(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := seedOrder(t, db, enums.OrderStatusCreated, time.Now().UTC(), nil)

	err := repo.Update(context.Background(), order.ID, map[string]any{
		"status":  enums.OrderStatusConfirmed,
		"version": 2,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)
	assert.Equal(t, 2, found.Version)
}

func TestRepositoryReplaceItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	dept := uuid.New()
	order := seedOrder(t, db, enums.OrderStatusCreated, time.Now().UTC(), nil)
	seedItem(t, db, order.ID, dept, 0, "OLD-1")

	replacement := []models.OrderItem{{
		ID:           uuid.New(),
		OrderID:      order.ID,
		SKU:          "NEW-1",
		Title:        "Новая деталь",
		Price:        decimal.NewFromInt(500),
		Quantity:     3,
		DepartmentID: dept,
		Position:     0,
	}}
	require.NoError(t, repo.ReplaceItems(context.Background(), order.ID, replacement))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "NEW-1", found.Items[0].SKU)
	assert.Equal(t, 3, found.Items[0].Quantity)
}

func TestRepositoryList_cursorPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	oldest := seedOrder(t, db, enums.OrderStatusCreated, now.Add(-2*time.Hour), func(o *models.Order) {
		o.ContactName = ptr("Первый")
	})
	middle := seedOrder(t, db, enums.OrderStatusConfirmed, now.Add(-time.Hour), func(o *models.Order) {
		o.ContactName = ptr("Второй")
	})
	newest := seedOrder(t, db, enums.OrderStatusBooked, now, func(o *models.Order) {
		o.ContactName = ptr("Третий")
	})

	first, err := repo.List(context.Background(), pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, newest.ID, first.Orders[0].ID)
	assert.Equal(t, middle.ID, first.Orders[1].ID)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: first.NextCursor}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, oldest.ID, second.Orders[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryList_filters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	dept := uuid.New()
	manager := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	match := seedOrder(t, db, enums.OrderStatusConfirmed, now, func(o *models.Order) {
		o.DepartmentID = &dept
		o.ManagerID = &manager
		o.ContactName = ptr("Иван Петров")
	})
	seedOrder(t, db, enums.OrderStatusCreated, now.Add(-time.Minute), func(o *models.Order) {
		o.ContactName = ptr("Другой Клиент")
	})

	status := enums.OrderStatusConfirmed
	list, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{
		Status:       &status,
		DepartmentID: &dept,
		ManagerID:    &manager,
	})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, match.ID, list.Orders[0].ID)
}

func TestRepositoryList_searchIsCaseInsensitive(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	match := seedOrder(t, db, enums.OrderStatusCreated, now, func(o *models.Order) {
		o.ContactName = ptr("petrov ivan")
		o.ContactPhone = ptr("+7 900 123-45-67")
	})
	seedOrder(t, db, enums.OrderStatusCreated, now.Add(-time.Minute), func(o *models.Order) {
		o.ContactName = ptr("sidorov")
	})

	list, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{Query: "PETROV"})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, match.ID, list.Orders[0].ID)

	byPhone, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{Query: "123-45"})
	require.NoError(t, err)
	require.Len(t, byPhone.Orders, 1)
}
