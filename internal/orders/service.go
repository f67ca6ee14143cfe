package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partslane/backoffice-backend/internal/audit"
	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
	"github.com/partslane/backoffice-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order workflow operations.
type Service interface {
	Create(ctx context.Context, input CreateInput, actor Actor) (*models.Order, error)
	Save(ctx context.Context, orderID uuid.UUID, input UpdateInput, actor Actor) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDetail, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

type service struct {
	repo  Repository
	logs  audit.Repository
	users UserDirectory
	tx    txRunner
	clock func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, logs audit.Repository, users UserDirectory, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logs == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:  repo,
		logs:  logs,
		users: users,
		tx:    tx,
		clock: time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, actor Actor) (*models.Order, error) {
	if err := requireWriteRole(actor); err != nil {
		return nil, err
	}

	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Status:       enums.OrderStatusCreated,
		ClientID:     input.ClientID,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ManagerID:    input.ManagerID,
		DepartmentID: input.DepartmentID,
		Version:      1,
	}

	draft, err := s.draftFor(ctx, order, itemDrafts(items))
	if err != nil {
		return nil, err
	}
	if missing := ValidateStatusFields(draft, enums.OrderStatusCreated, actor); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "required fields missing").WithDetails(missing)
	}

	actorName, err := s.actorName(ctx, actor)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		logs := s.logs.WithTx(tx)

		persisted, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range items {
			items[i].OrderID = persisted.ID
		}
		if err := repo.ReplaceItems(ctx, persisted.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		if len(input.Comments) > 0 {
			if err := repo.ReplaceComments(ctx, persisted.ID, buildComments(persisted.ID, input.Comments, actor)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order comments")
			}
		}

		reloaded, err := repo.FindByID(ctx, persisted.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		created = reloaded

		return appendLog(ctx, logs, reloaded, nil, enums.LogActionCreated, actor, actorName)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Save(ctx context.Context, orderID uuid.UUID, input UpdateInput, actor Actor) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := requireWriteRole(actor); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	actorName, err := s.actorName(ctx, actor)
	if err != nil {
		return nil, err
	}

	var saved *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		logs := s.logs.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if input.Version != nil && *input.Version != order.Version {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified by someone else").
				WithDetails(map[string]int{"expected": order.Version, "provided": *input.Version})
		}

		initial := order.Status
		if actor.Role == enums.UserRoleManager && input.Status.Before(initial) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status regression not allowed for managers")
		}

		filtered := FilterUpdateForActor(input, actor, initial)

		var items []models.OrderItem
		if filtered.Items != nil {
			items, err = buildItems(*filtered.Items)
			if err != nil {
				return err
			}
		} else {
			items = order.Items
		}

		next := applyUpdate(*order, filtered)
		draft, err := s.draftFor(ctx, &next, itemDrafts(items))
		if err != nil {
			return err
		}
		if missing := ValidateStatusFields(draft, filtered.Status, actor); len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "required fields missing").WithDetails(missing)
		}

		before := audit.OrderSnapshot(order)

		updates := buildUpdates(order, filtered, s.clock())
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if filtered.Items != nil {
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := repo.ReplaceItems(ctx, order.ID, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
			}
		}
		if filtered.Comments != nil {
			if err := repo.ReplaceComments(ctx, order.ID, buildComments(order.ID, *filtered.Comments, actor)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order comments")
			}
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		saved = reloaded

		action := enums.LogActionUpdated
		if filtered.Status != initial {
			action = enums.LogActionStatusChanged
		}
		return appendLog(ctx, logs, reloaded, before, action, actor, actorName)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDetail, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	detail := &OrderDetail{
		Order:     *order,
		Available: AvailableStatuses(order.Status, actor.Role),
	}

	// Status dates are display-only; a failed log read degrades the view
	// instead of failing it.
	if logs, logErr := s.logs.ListByOrderAsc(ctx, orderID); logErr == nil {
		detail.StatusDates = audit.FirstSeenStatusDates(logs)
	} else {
		detail.StatusDates = map[enums.OrderStatus]time.Time{}
	}

	return detail, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	// A bad cursor is the caller's mistake, not a storage failure.
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func requireWriteRole(actor Actor) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !actor.Role.IsAdmin() && actor.Role != enums.UserRoleManager {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role is read-only")
	}
	return nil
}

// draftFor assembles the effective state the workflow validator inspects,
// resolving the manager's department when a manager is linked.
func (s *service) draftFor(ctx context.Context, order *models.Order, items []ItemDraft) (Draft, error) {
	draft := Draft{
		ClientID:             order.ClientID,
		ContactName:          order.ContactName,
		ContactPhone:         order.ContactPhone,
		ManagerID:            order.ManagerID,
		DepartmentID:         order.DepartmentID,
		Items:                items,
		FinalDeliveryDate:    order.FinalDeliveryDate,
		BookedUntil:          order.BookedUntil,
		ReadyUntil:           order.ReadyUntil,
		PrepaymentAmount:     order.PrepaymentAmount,
		PrepaymentDate:       order.PrepaymentDate,
		PaymentDate:          order.PaymentDate,
		OrderAmount:          order.OrderAmount,
		CompletionDate:       order.CompletionDate,
		ReturnReason:         order.ReturnReason,
		ReturnDate:           order.ReturnDate,
		ReturnAmount:         order.ReturnAmount,
		ReturnPaymentDate:    order.ReturnPaymentDate,
		ReturnDocumentNumber: order.ReturnDocumentNumber,
	}

	if order.ManagerID != nil {
		manager, err := s.users.FindByID(ctx, *order.ManagerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Draft{}, pkgerrors.New(pkgerrors.CodeValidation, "manager not found")
			}
			return Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load manager")
		}
		draft.ManagerDepartmentID = manager.DepartmentID
	}

	return draft, nil
}

func (s *service) actorName(ctx context.Context, actor Actor) (string, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load acting user")
	}
	return user.FullName(), nil
}

// buildItems converts submitted lines, rejecting any item without a
// department before it reaches persistence.
func buildItems(inputs []ItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		if in.DepartmentID == nil || *in.DepartmentID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("order item %d has no department", i+1))
		}
		quantity := in.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			SKU:                  in.SKU,
			Title:                in.Title,
			Price:                in.Price,
			Brand:                in.Brand,
			Quantity:             quantity,
			SupplierDeliveryDate: in.SupplierDeliveryDate,
			CarModel:             in.CarModel,
			VinCode:              in.VinCode,
			DepartmentID:         *in.DepartmentID,
			Position:             i,
		})
	}
	return items, nil
}

func itemDrafts(items []models.OrderItem) []ItemDraft {
	drafts := make([]ItemDraft, 0, len(items))
	for _, item := range items {
		id := item.DepartmentID
		drafts = append(drafts, ItemDraft{
			SupplierDeliveryDate: item.SupplierDeliveryDate,
			DepartmentID:         &id,
		})
	}
	return drafts
}

func buildComments(orderID uuid.UUID, bodies []string, actor Actor) []models.OrderComment {
	comments := make([]models.OrderComment, 0, len(bodies))
	authorID := actor.UserID
	for i, body := range bodies {
		comments = append(comments, models.OrderComment{
			OrderID:  orderID,
			AuthorID: &authorID,
			Body:     body,
			Position: i,
		})
	}
	return comments
}

// applyUpdate returns a copy of the order with the filtered update applied.
// A zero UUID on a reference field clears the link.
func applyUpdate(order models.Order, in UpdateInput) models.Order {
	order.Status = in.Status
	if in.ClientID != nil {
		order.ClientID = refOrNil(in.ClientID)
	}
	if in.ContactName != nil {
		order.ContactName = in.ContactName
	}
	if in.ContactPhone != nil {
		order.ContactPhone = in.ContactPhone
	}
	if in.ManagerID != nil {
		order.ManagerID = refOrNil(in.ManagerID)
	}
	if in.DepartmentID != nil {
		order.DepartmentID = refOrNil(in.DepartmentID)
	}
	if in.FinalDeliveryDate != nil {
		order.FinalDeliveryDate = in.FinalDeliveryDate
	}
	if in.BookedUntil != nil {
		order.BookedUntil = in.BookedUntil
	}
	if in.ReadyUntil != nil {
		order.ReadyUntil = in.ReadyUntil
	}
	if in.PrepaymentAmount != nil {
		order.PrepaymentAmount = in.PrepaymentAmount
	}
	if in.PrepaymentDate != nil {
		order.PrepaymentDate = in.PrepaymentDate
	}
	if in.PaymentDate != nil {
		order.PaymentDate = in.PaymentDate
	}
	if in.OrderAmount != nil {
		order.OrderAmount = in.OrderAmount
	}
	if in.CompletionDate != nil {
		order.CompletionDate = in.CompletionDate
	}
	if in.ReturnReason != nil {
		order.ReturnReason = in.ReturnReason
	}
	if in.ReturnDate != nil {
		order.ReturnDate = in.ReturnDate
	}
	if in.ReturnAmount != nil {
		order.ReturnAmount = in.ReturnAmount
	}
	if in.ReturnPaymentDate != nil {
		order.ReturnPaymentDate = in.ReturnPaymentDate
	}
	if in.ReturnDocumentNumber != nil {
		order.ReturnDocumentNumber = in.ReturnDocumentNumber
	}
	return order
}

// buildUpdates translates the filtered update into column assignments,
// bumping the version and stamping the confirmation date on the first
// transition into confirmed.
func buildUpdates(order *models.Order, in UpdateInput, now time.Time) map[string]any {
	updates := map[string]any{
		"status":  in.Status,
		"version": order.Version + 1,
	}
	if in.Status == enums.OrderStatusConfirmed && order.ConfirmationDate == nil {
		updates["confirmation_date"] = now
	}
	if in.ClientID != nil {
		updates["client_id"] = refOrNil(in.ClientID)
	}
	if in.ContactName != nil {
		updates["contact_name"] = *in.ContactName
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = *in.ContactPhone
	}
	if in.ManagerID != nil {
		updates["manager_id"] = refOrNil(in.ManagerID)
	}
	if in.DepartmentID != nil {
		updates["department_id"] = refOrNil(in.DepartmentID)
	}
	if in.FinalDeliveryDate != nil {
		updates["final_delivery_date"] = *in.FinalDeliveryDate
	}
	if in.BookedUntil != nil {
		updates["booked_until"] = *in.BookedUntil
	}
	if in.ReadyUntil != nil {
		updates["ready_until"] = *in.ReadyUntil
	}
	if in.PrepaymentAmount != nil {
		updates["prepayment_amount"] = *in.PrepaymentAmount
	}
	if in.PrepaymentDate != nil {
		updates["prepayment_date"] = *in.PrepaymentDate
	}
	if in.PaymentDate != nil {
		updates["payment_date"] = *in.PaymentDate
	}
	if in.OrderAmount != nil {
		updates["order_amount"] = *in.OrderAmount
	}
	if in.CompletionDate != nil {
		updates["completion_date"] = *in.CompletionDate
	}
	if in.ReturnReason != nil {
		updates["return_reason"] = *in.ReturnReason
	}
	if in.ReturnDate != nil {
		updates["return_date"] = *in.ReturnDate
	}
	if in.ReturnAmount != nil {
		updates["return_amount"] = *in.ReturnAmount
	}
	if in.ReturnPaymentDate != nil {
		updates["return_payment_date"] = *in.ReturnPaymentDate
	}
	if in.ReturnDocumentNumber != nil {
		updates["return_document_number"] = *in.ReturnDocumentNumber
	}
	return updates
}

func refOrNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}

func appendLog(ctx context.Context, logs audit.Repository, order *models.Order, before map[string]any, action enums.LogAction, actor Actor, actorName string) error {
	entry := &models.OrderLog{
		OrderID:   order.ID,
		Action:    action,
		ActorID:   actor.UserID,
		ActorName: actorName,
		Status:    order.Status,
		Before:    before,
		After:     audit.OrderSnapshot(order),
	}
	if err := logs.Append(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append order log")
	}
	return nil
}
