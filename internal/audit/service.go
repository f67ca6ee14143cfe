package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
)

// LogEntry is one change-log row with the rendered before/after table.
type LogEntry struct {
	ID        uuid.UUID         `json:"id"`
	Action    enums.LogAction   `json:"action"`
	ActorID   uuid.UUID         `json:"actor_id"`
	ActorName string            `json:"actor_name"`
	Status    enums.OrderStatus `json:"status"`
	Changes   []Change          `json:"changes"`
	CreatedAt time.Time         `json:"created_at"`
}

// LogList wraps a page of entries plus the unpaged total.
type LogList struct {
	Entries []LogEntry `json:"entries"`
	Total   int64      `json:"total"`
}

// Service exposes change-log reads for the audit viewer.
type Service interface {
	ListOrderLogs(ctx context.Context, orderID uuid.UUID, filters LogFilters) (*LogList, error)
	StatusDates(ctx context.Context, orderID uuid.UUID) (map[enums.OrderStatus]time.Time, error)
}

type service struct {
	repo Repository
}

// NewService builds the audit service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOrderLogs(ctx context.Context, orderID uuid.UUID, filters LogFilters) (*LogList, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	logs, total, err := s.repo.ListByOrder(ctx, orderID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order logs")
	}

	entries := make([]LogEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, LogEntry{
			ID:        log.ID,
			Action:    log.Action,
			ActorID:   log.ActorID,
			ActorName: log.ActorName,
			Status:    log.Status,
			Changes:   Diff(log.Before, log.After, OrderFields),
			CreatedAt: log.CreatedAt,
		})
	}
	return &LogList{Entries: entries, Total: total}, nil
}

// StatusDates derives the first-seen timestamp per status from the
// append-only log. Once a status shows up its date never moves.
func (s *service) StatusDates(ctx context.Context, orderID uuid.UUID) (map[enums.OrderStatus]time.Time, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	logs, err := s.repo.ListByOrderAsc(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order logs")
	}
	return FirstSeenStatusDates(logs), nil
}

// FirstSeenStatusDates folds an ascending log history into status → first
// timestamp. Exposed so the orders service can reuse it on detail reads.
func FirstSeenStatusDates(logs []models.OrderLog) map[enums.OrderStatus]time.Time {
	dates := make(map[enums.OrderStatus]time.Time, len(logs))
	for _, log := range logs {
		if !log.Status.IsValid() {
			continue
		}
		if _, seen := dates[log.Status]; seen {
			continue
		}
		dates[log.Status] = log.CreatedAt
	}
	return dates
}
