package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/types"
)

// TrackedField describes one order attribute surfaced in the change log.
// Key addresses the snapshot value used for change detection; DisplayKey,
// when set, names the snapshot value shown to staff instead (the department
// is keyed by ID but displayed by address).
type TrackedField struct {
	Key        string
	Label      string
	IsDate     bool
	DisplayKey string
}

// OrderFields is the canonical tracked-field table for order snapshots.
// The diff walks it in order, so the rendered change list follows the
// workflow ladder.
var OrderFields = []TrackedField{
	{Key: "status", Label: "Статус"},
	{Key: "clientId", Label: "Клиент", DisplayKey: "clientName"},
	{Key: "contactName", Label: "Имя клиента (лида)"},
	{Key: "contactPhone", Label: "Контактный телефон"},
	{Key: "managerId", Label: "Менеджер", DisplayKey: "managerName"},
	{Key: "departmentId", Label: "Подразделение", DisplayKey: "departmentAddress"},
	{Key: "finalDeliveryDate", Label: "Дата поставки", IsDate: true},
	{Key: "bookedUntil", Label: "Бронь до", IsDate: true},
	{Key: "readyUntil", Label: "Готов к выдаче до", IsDate: true},
	{Key: "prepaymentAmount", Label: "Сумма предоплаты"},
	{Key: "prepaymentDate", Label: "Дата предоплаты", IsDate: true},
	{Key: "paymentDate", Label: "Дата оплаты", IsDate: true},
	{Key: "orderAmount", Label: "Сумма заказа"},
	{Key: "completionDate", Label: "Дата выдачи", IsDate: true},
	{Key: "returnReason", Label: "Причина возврата"},
	{Key: "returnDate", Label: "Дата возврата", IsDate: true},
	{Key: "returnAmount", Label: "Сумма возврата"},
	{Key: "returnPaymentDate", Label: "Дата возврата денег", IsDate: true},
	{Key: "returnDocumentNumber", Label: "Номер документа возврата"},
}

// OrderSnapshot flattens an order into the tracked-field snapshot stored on
// every change-log row. Relations must be preloaded for the display names to
// resolve; missing relations degrade to the bare IDs.
func OrderSnapshot(order *models.Order) types.JSONMap {
	if order == nil {
		return types.JSONMap{}
	}

	snap := types.JSONMap{
		"status":               order.Status.String(),
		"clientId":             uuidString(order.ClientID),
		"contactName":          stringValue(order.ContactName),
		"contactPhone":         stringValue(order.ContactPhone),
		"managerId":            uuidString(order.ManagerID),
		"departmentId":         uuidString(order.DepartmentID),
		"finalDeliveryDate":    timeString(order.FinalDeliveryDate),
		"bookedUntil":          timeString(order.BookedUntil),
		"readyUntil":           timeString(order.ReadyUntil),
		"prepaymentAmount":     decimalString(order.PrepaymentAmount),
		"prepaymentDate":       timeString(order.PrepaymentDate),
		"paymentDate":          timeString(order.PaymentDate),
		"orderAmount":          decimalString(order.OrderAmount),
		"completionDate":       timeString(order.CompletionDate),
		"returnReason":         stringValue(order.ReturnReason),
		"returnDate":           timeString(order.ReturnDate),
		"returnAmount":         decimalString(order.ReturnAmount),
		"returnPaymentDate":    timeString(order.ReturnPaymentDate),
		"returnDocumentNumber": stringValue(order.ReturnDocumentNumber),
	}

	if order.Client != nil {
		snap["clientName"] = order.Client.FullName()
	}
	if order.Manager != nil {
		snap["managerName"] = order.Manager.FullName()
	}
	if order.Department != nil {
		snap["departmentAddress"] = order.Department.Address
	}

	return snap
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
