package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partslane/backoffice-backend/pkg/enums"
)

// Actor identifies who is performing a workflow operation. It is passed
// explicitly so the rules stay free of ambient session state.
type Actor struct {
	UserID       uuid.UUID
	DepartmentID *uuid.UUID
	Role         enums.UserRole
}

// FieldError names a required field that is missing or inconsistent for the
// requested status. Key is the machine name, Label the text shown to staff.
type FieldError struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Russian labels match the back-office UI copy.
const (
	labelContactName    = "Имя клиента (лида)"
	labelContactPhone   = "Контактный телефон"
	labelOrderItems     = "Состав заказа"
	labelClient         = "Клиент"
	labelDepartment     = "Подразделение"
	labelManager        = "Менеджер"
	labelManagerDept    = "Менеджер относится к другому подразделению"
	labelSelfAssignDept = "Суперадмин, назначенный менеджером, не может иметь подразделение"
	labelFinalDelivery  = "Дата поставки"
	labelBookedUntil    = "Бронь до"
	labelReadyUntil     = "Готов к выдаче до"
	labelPrepayAmount   = "Сумма предоплаты"
	labelPrepayDate     = "Дата предоплаты"
	labelPaymentDate    = "Дата оплаты"
	labelOrderAmount    = "Сумма заказа"
	labelCompletionDate = "Дата выдачи"
	labelReturnReason   = "Причина возврата"
	labelReturnDate     = "Дата возврата"
	labelReturnAmount   = "Сумма возврата"
	labelReturnPayDate  = "Дата возврата денег"
	labelReturnDocNum   = "Номер документа возврата"
)

// Draft is the effective order state being validated: the stored order with
// the pending update already applied.
type Draft struct {
	ClientID             *uuid.UUID
	ContactName          *string
	ContactPhone         *string
	ManagerID            *uuid.UUID
	ManagerDepartmentID  *uuid.UUID
	DepartmentID         *uuid.UUID
	Items                []ItemDraft
	FinalDeliveryDate    *time.Time
	BookedUntil          *time.Time
	ReadyUntil           *time.Time
	PrepaymentAmount     *decimal.Decimal
	PrepaymentDate       *time.Time
	PaymentDate          *time.Time
	OrderAmount          *decimal.Decimal
	CompletionDate       *time.Time
	ReturnReason         *string
	ReturnDate           *time.Time
	ReturnAmount         *decimal.Decimal
	ReturnPaymentDate    *time.Time
	ReturnDocumentNumber *string
}

// ItemDraft carries the per-line-item fields the workflow rules inspect.
type ItemDraft struct {
	SupplierDeliveryDate *time.Time
	DepartmentID         *uuid.UUID
}

// AvailableStatuses returns the target statuses the actor may select from the
// given current status. Admin roles see the full ladder, managers can hold or
// advance but never regress, everyone else is read-only.
func AvailableStatuses(current enums.OrderStatus, role enums.UserRole) []enums.OrderStatus {
	all := enums.OrderStatuses()
	if role.IsAdmin() {
		return all
	}
	idx := current.Index()
	if idx < 0 {
		return nil
	}
	if role == enums.UserRoleManager {
		return all[idx:]
	}
	return all[idx : idx+1]
}

// SelfAssigned reports whether a superadmin actor has picked themselves as the
// order's manager. That combination flips the department rule: the order must
// then carry no department at all.
func SelfAssigned(draft Draft, actor Actor) bool {
	return actor.Role == enums.UserRoleSuperadmin &&
		draft.ManagerID != nil &&
		*draft.ManagerID == actor.UserID
}

// ValidateStatusFields runs the cumulative required-field checklist for the
// target status: reaching status N means every group 0..N must be satisfied.
// The returned slice lists every violation, in ladder order.
func ValidateStatusFields(draft Draft, target enums.OrderStatus, actor Actor) []FieldError {
	targetIdx := target.Index()
	if targetIdx < 0 {
		return []FieldError{{Key: "status", Label: fmt.Sprintf("Неизвестный статус %q", target)}}
	}

	var missing []FieldError
	for idx := 0; idx <= targetIdx; idx++ {
		missing = append(missing, validateGroup(draft, idx, actor)...)
	}
	return missing
}

func validateGroup(draft Draft, idx int, actor Actor) []FieldError {
	var missing []FieldError

	switch idx {
	case 0: // created
		if draft.ClientID == nil {
			if isBlank(draft.ContactName) {
				missing = append(missing, FieldError{Key: "contactName", Label: labelContactName})
			}
			if isBlank(draft.ContactPhone) {
				missing = append(missing, FieldError{Key: "contactPhone", Label: labelContactPhone})
			}
		}
		if len(draft.Items) == 0 {
			missing = append(missing, FieldError{Key: "orderItems", Label: labelOrderItems})
		}

	case 1: // confirmed
		if draft.ClientID == nil {
			missing = append(missing, FieldError{Key: "clientId", Label: labelClient})
		}
		if SelfAssigned(draft, actor) {
			if draft.DepartmentID != nil {
				missing = append(missing, FieldError{Key: "departmentId", Label: labelSelfAssignDept})
			}
		} else if draft.DepartmentID == nil {
			missing = append(missing, FieldError{Key: "departmentId", Label: labelDepartment})
		}
		if draft.ManagerID == nil {
			missing = append(missing, FieldError{Key: "managerId", Label: labelManager})
		} else if draft.DepartmentID != nil && draft.ManagerDepartmentID != nil &&
			*draft.ManagerDepartmentID != *draft.DepartmentID {
			missing = append(missing, FieldError{Key: "managerId", Label: labelManagerDept})
		}
		for i, item := range draft.Items {
			if item.SupplierDeliveryDate == nil || item.SupplierDeliveryDate.IsZero() {
				missing = append(missing, FieldError{
					Key:   fmt.Sprintf("orderItems[%d].supplierDeliveryDate", i),
					Label: fmt.Sprintf("Срок поставки (позиция %d)", i+1),
				})
			}
		}

	case 2: // booked
		if draft.BookedUntil == nil {
			missing = append(missing, FieldError{Key: "bookedUntil", Label: labelBookedUntil})
		}

	case 3: // ready
		if draft.ReadyUntil == nil {
			missing = append(missing, FieldError{Key: "readyUntil", Label: labelReadyUntil})
		}
		if !isPositive(draft.PrepaymentAmount) {
			missing = append(missing, FieldError{Key: "prepaymentAmount", Label: labelPrepayAmount})
		}
		if draft.PrepaymentDate == nil {
			missing = append(missing, FieldError{Key: "prepaymentDate", Label: labelPrepayDate})
		}

	case 4: // paid
		if draft.PaymentDate == nil {
			missing = append(missing, FieldError{Key: "paymentDate", Label: labelPaymentDate})
		}
		if !isPositive(draft.OrderAmount) {
			missing = append(missing, FieldError{Key: "orderAmount", Label: labelOrderAmount})
		}

	case 5: // completed
		if draft.CompletionDate == nil {
			missing = append(missing, FieldError{Key: "completionDate", Label: labelCompletionDate})
		}

	case 6: // returned
		if isBlank(draft.ReturnReason) {
			missing = append(missing, FieldError{Key: "returnReason", Label: labelReturnReason})
		}
		if draft.ReturnDate == nil {
			missing = append(missing, FieldError{Key: "returnDate", Label: labelReturnDate})
		}
		if !isPositive(draft.ReturnAmount) {
			missing = append(missing, FieldError{Key: "returnAmount", Label: labelReturnAmount})
		}
		if draft.ReturnPaymentDate == nil {
			missing = append(missing, FieldError{Key: "returnPaymentDate", Label: labelReturnPayDate})
		}
		if isBlank(draft.ReturnDocumentNumber) {
			missing = append(missing, FieldError{Key: "returnDocumentNumber", Label: labelReturnDocNum})
		}
	}

	return missing
}

// CanEditStatusGroup decides whether the actor may modify the field group
// belonging to the given status, relative to the status currently selected and
// the status the order had when it was loaded.
//
// Admin roles may edit any group. Managers may only fill the group matching a
// status they are advancing into; groups the order has already passed stay
// locked to protect historical data. All other roles are read-only.
func CanEditStatusGroup(group, current, initial enums.OrderStatus, role enums.UserRole) bool {
	if role.IsAdmin() {
		return true
	}
	if role != enums.UserRoleManager {
		return false
	}

	groupIdx := group.Index()
	currentIdx := current.Index()
	initialIdx := initial.Index()
	if groupIdx < 0 || currentIdx < 0 || initialIdx < 0 {
		return false
	}

	if initialIdx == 0 {
		// Fresh order: the created group stays editable until the order moves
		// on, later groups open up one at a time as the status advances.
		if groupIdx == 0 {
			return currentIdx == 0
		}
		return currentIdx > initialIdx && groupIdx == currentIdx
	}

	// The order already had history at load time: everything at or before
	// that point is locked, only the newly selected status group is open.
	if groupIdx <= initialIdx {
		return false
	}
	return groupIdx == currentIdx
}

// FilterUpdateForActor drops every field a manager is not allowed to touch
// from the pending update. Dropped fields are simply not applied, they are
// never cleared. Admin roles and read-only roles pass through unchanged
// (read-only roles are rejected before this point).
func FilterUpdateForActor(in UpdateInput, actor Actor, initial enums.OrderStatus) UpdateInput {
	if actor.Role != enums.UserRoleManager {
		return in
	}

	out := in
	current := in.Status

	if !CanEditStatusGroup(enums.OrderStatusCreated, current, initial, actor.Role) {
		out.ClientID = nil
		out.ContactName = nil
		out.ContactPhone = nil
		out.Items = nil
	}
	if !CanEditStatusGroup(enums.OrderStatusConfirmed, current, initial, actor.Role) {
		out.ManagerID = nil
		out.DepartmentID = nil
		out.FinalDeliveryDate = nil
	}
	if !CanEditStatusGroup(enums.OrderStatusBooked, current, initial, actor.Role) {
		out.BookedUntil = nil
	}
	if !CanEditStatusGroup(enums.OrderStatusReady, current, initial, actor.Role) {
		out.ReadyUntil = nil
		out.PrepaymentAmount = nil
		out.PrepaymentDate = nil
	}
	if !CanEditStatusGroup(enums.OrderStatusPaid, current, initial, actor.Role) {
		out.PaymentDate = nil
		out.OrderAmount = nil
	}
	if !CanEditStatusGroup(enums.OrderStatusCompleted, current, initial, actor.Role) {
		out.CompletionDate = nil
	}
	if !CanEditStatusGroup(enums.OrderStatusReturned, current, initial, actor.Role) {
		out.ReturnReason = nil
		out.ReturnDate = nil
		out.ReturnAmount = nil
		out.ReturnPaymentDate = nil
		out.ReturnDocumentNumber = nil
	}

	// Comments stay editable at every status.
	return out
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func isPositive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}
