package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/config"
	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
	"github.com/partslane/backoffice-backend/pkg/security"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE users (
  id TEXT PRIMARY KEY DEFAULT (
    lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' ||
    substr(lower(hex(randomblob(2))),2) || '-a' ||
    substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6)))
  ),
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
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_logs (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  action TEXT NOT NULL,
  actor_id TEXT NOT NULL,
  actor_name TEXT NOT NULL,
  status TEXT NOT NULL,
  before TEXT,
  after TEXT,
  created_at DATETIME
);`, `
CREATE TABLE order_comments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  author_id TEXT,
  body TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func usersFixture(t *testing.T) (Service, *Repository) {
	t.Helper()

	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo, testPasswordConfig())
	require.NoError(t, err)
	return svc, repo
}

func seedUser(t *testing.T, repo *Repository, email string, role enums.UserRole, created time.Time, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if mutate != nil {
		mutate(user)
	}
	created2, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	return created2
}

func TestServiceCreate_hashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, repo := usersFixture(t)

	summary, err := svc.Create(context.Background(), CreateInput{
		Email:     "  Manager@Example.COM ",
		Password:  "Secret#123",
		FirstName: "Мария",
		LastName:  "Иванова",
		Role:      enums.UserRoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", summary.Email)
	assert.True(t, summary.IsActive)

	stored, err := repo.FindByEmail(context.Background(), "manager@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.NotEqual(t, "Secret#123", stored.PasswordHash)

	ok, err := security.VerifyPassword("Secret#123", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestServiceCreate_duplicateEmail(t *testing.T) {
	svc, repo := usersFixture(t)
	seedUser(t, repo, "taken@example.com", enums.UserRoleViewer, time.Now().UTC(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Email:     "Taken@example.com",
		Password:  "Secret#123",
		FirstName: "Имя",
		LastName:  "Фамилия",
		Role:      enums.UserRoleViewer,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreate_invalidRole(t *testing.T) {
	svc, _ := usersFixture(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Email:     "new@example.com",
		Password:  "Secret#123",
		FirstName: "Имя",
		LastName:  "Фамилия",
		Role:      enums.UserRole("owner"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceUpdate_partialFields(t *testing.T) {
	svc, repo := usersFixture(t)
	deptID := uuid.New()
	user := seedUser(t, repo, "manager@example.com", enums.UserRoleManager, time.Now().UTC(), func(u *models.User) {
		u.DepartmentID = &deptID
	})

	newName := "Анна"
	inactive := false
	summary, err := svc.Update(context.Background(), user.ID, UpdateInput{
		FirstName: &newName,
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Анна", summary.FirstName)
	assert.False(t, summary.IsActive)
	assert.Equal(t, "User", summary.LastName)
	require.NotNil(t, summary.DepartmentID)
	assert.Equal(t, deptID, *summary.DepartmentID)
}

func TestServiceUpdate_clearsDepartmentWithZeroUUID(t *testing.T) {
	svc, repo := usersFixture(t)
	deptID := uuid.New()
	user := seedUser(t, repo, "manager@example.com", enums.UserRoleManager, time.Now().UTC(), func(u *models.User) {
		u.DepartmentID = &deptID
	})

	cleared := uuid.Nil
	summary, err := svc.Update(context.Background(), user.ID, UpdateInput{DepartmentID: &cleared})
	require.NoError(t, err)
	assert.Nil(t, summary.DepartmentID)
}

func TestServiceUpdate_notFound(t *testing.T) {
	svc, _ := usersFixture(t)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceDelete_detachesComments(t *testing.T) {
	svc, repo := usersFixture(t)
	user := seedUser(t, repo, "author@example.com", enums.UserRoleManager, time.Now().UTC(), nil)

	orderID := uuid.New()
	require.NoError(t, repo.db.Exec(
		"INSERT INTO order_comments (id, order_id, author_id, body) VALUES (?, ?, ?, ?)",
		uuid.New().String(), orderID.String(), user.ID.String(), "перезвонить клиенту",
	).Error)

	require.NoError(t, svc.Delete(context.Background(), user.ID))

	_, err := repo.FindByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orphaned int64
	require.NoError(t, repo.db.Model(&models.OrderComment{}).
		Where("order_id = ? AND author_id IS NULL", orderID).
		Count(&orphaned).Error)
	assert.Equal(t, int64(1), orphaned)
}

func TestServiceDelete_userOnOrderConflicts(t *testing.T) {
	svc, repo := usersFixture(t)
	user := seedUser(t, repo, "manager@example.com", enums.UserRoleManager, time.Now().UTC(), nil)

	require.NoError(t, repo.db.Exec(
		"INSERT INTO orders (id, status, manager_id) VALUES (?, 'created', ?)",
		uuid.New().String(), user.ID.String(),
	).Error)

	err := svc.Delete(context.Background(), user.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	_, err = repo.FindByID(context.Background(), user.ID)
	assert.NoError(t, err, "referenced user must survive")
}

func TestServiceDelete_logActorConflicts(t *testing.T) {
	svc, repo := usersFixture(t)
	user := seedUser(t, repo, "actor@example.com", enums.UserRoleAdmin, time.Now().UTC(), nil)

	require.NoError(t, repo.db.Exec(
		"INSERT INTO order_logs (id, order_id, action, actor_id, actor_name, status) VALUES (?, ?, 'created', ?, 'Мария Иванова', 'created')",
		uuid.New().String(), uuid.New().String(), user.ID.String(),
	).Error)

	err := svc.Delete(context.Background(), user.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceDelete_notFound(t *testing.T) {
	svc, _ := usersFixture(t)

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceList_filters(t *testing.T) {
	svc, repo := usersFixture(t)
	deptID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	seedUser(t, repo, "alice@example.com", enums.UserRoleManager, now, func(u *models.User) {
		u.FirstName = "Alice"
		u.LastName = "Cooper"
		u.DepartmentID = &deptID
	})
	seedUser(t, repo, "bob@example.com", enums.UserRoleViewer, now.Add(-time.Minute), func(u *models.User) {
		u.FirstName = "Bob"
		u.LastName = "Dylan"
	})

	role := enums.UserRoleManager
	managers, err := svc.List(context.Background(), ListFilters{Role: &role})
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "alice@example.com", managers[0].Email)

	byQuery, err := svc.List(context.Background(), ListFilters{Query: "COOPER"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Alice", byQuery[0].FirstName)

	byDept, err := svc.List(context.Background(), ListFilters{DepartmentID: &deptID})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
}
