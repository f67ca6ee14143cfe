package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	"github.com/partslane/backoffice-backend/pkg/types"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE order_logs (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  action TEXT NOT NULL,
  actor_id TEXT NOT NULL,
  actor_name TEXT NOT NULL,
  status TEXT NOT NULL,
  "before" TEXT,
  "after" TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func appendLog(t *testing.T, repo Repository, orderID uuid.UUID, action enums.LogAction, actorName string, status enums.OrderStatus, at time.Time) *models.OrderLog {
	t.Helper()

	log := &models.OrderLog{
		ID:        uuid.New(),
		OrderID:   orderID,
		Action:    action,
		ActorID:   uuid.New(),
		ActorName: actorName,
		Status:    status,
		Before:    types.JSONMap{"status": "created"},
		After:     types.JSONMap{"status": status.String()},
		CreatedAt: at,
	}
	require.NoError(t, repo.Append(context.Background(), log))
	return log
}

func TestRepositoryAppendAndRoundTrip(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	orderID := uuid.New()
	appendLog(t, repo, orderID, enums.LogActionStatusChanged, "Мария Иванова", enums.OrderStatusConfirmed, time.Now().UTC())

	logs, total, err := repo.ListByOrder(context.Background(), orderID, LogFilters{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "Мария Иванова", logs[0].ActorName)
	assert.Equal(t, "created", logs[0].Before["status"])
	assert.Equal(t, "confirmed", logs[0].After["status"])
}

func TestRepositoryListByOrder_newestFirstWithTotal(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	orderID := uuid.New()
	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	appendLog(t, repo, orderID, enums.LogActionCreated, "Alice", enums.OrderStatusCreated, base)
	appendLog(t, repo, orderID, enums.LogActionStatusChanged, "Alice", enums.OrderStatusConfirmed, base.Add(time.Hour))
	appendLog(t, repo, orderID, enums.LogActionUpdated, "Bob", enums.OrderStatusConfirmed, base.Add(2*time.Hour))
	appendLog(t, repo, uuid.New(), enums.LogActionCreated, "Other", enums.OrderStatusCreated, base)

	logs, total, err := repo.ListByOrder(context.Background(), orderID, LogFilters{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 2)
	assert.Equal(t, enums.LogActionUpdated, logs[0].Action)
	assert.Equal(t, enums.LogActionStatusChanged, logs[1].Action)

	page2, _, err := repo.ListByOrder(context.Background(), orderID, LogFilters{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, enums.LogActionCreated, page2[0].Action)
}

func TestRepositoryListByOrder_searchAndDateRange(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	orderID := uuid.New()
	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	appendLog(t, repo, orderID, enums.LogActionCreated, "Alice Cooper", enums.OrderStatusCreated, base)
	appendLog(t, repo, orderID, enums.LogActionStatusChanged, "Bob Dylan", enums.OrderStatusConfirmed, base.Add(time.Hour))

	byActor, total, err := repo.ListByOrder(context.Background(), orderID, LogFilters{Search: "alice", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byActor, 1)
	assert.Equal(t, "Alice Cooper", byActor[0].ActorName)

	byAction, _, err := repo.ListByOrder(context.Background(), orderID, LogFilters{Search: "status_changed", Limit: 10})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, enums.LogActionStatusChanged, byAction[0].Action)

	from := base.Add(30 * time.Minute)
	ranged, _, err := repo.ListByOrder(context.Background(), orderID, LogFilters{From: &from, Limit: 10})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "Bob Dylan", ranged[0].ActorName)
}

func TestRepositoryListByOrderAsc(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	orderID := uuid.New()
	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	appendLog(t, repo, orderID, enums.LogActionStatusChanged, "Alice", enums.OrderStatusConfirmed, base.Add(time.Hour))
	appendLog(t, repo, orderID, enums.LogActionCreated, "Alice", enums.OrderStatusCreated, base)

	logs, err := repo.ListByOrderAsc(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, enums.OrderStatusCreated, logs[0].Status)
	assert.Equal(t, enums.OrderStatusConfirmed, logs[1].Status)
}
