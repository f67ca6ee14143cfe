package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
)

// ItemInput is one submitted order line. DepartmentID is mandatory: lines
// that cannot be resolved to a department are rejected before persistence.
type ItemInput struct {
	SKU                  string          `json:"sku" validate:"required"`
	Title                string          `json:"title" validate:"required"`
	Price                decimal.Decimal `json:"price"`
	Brand                *string         `json:"brand,omitempty"`
	Quantity             int             `json:"quantity" validate:"gte=1"`
	SupplierDeliveryDate *time.Time      `json:"supplier_delivery_date,omitempty"`
	CarModel             *string         `json:"car_model,omitempty"`
	VinCode              *string         `json:"vin_code,omitempty"`
	DepartmentID         *uuid.UUID      `json:"department_id"`
}

// CreateInput captures a new order submission. Status is fixed at created.
type CreateInput struct {
	ClientID     *uuid.UUID  `json:"client_id,omitempty"`
	ContactName  *string     `json:"contact_name,omitempty"`
	ContactPhone *string     `json:"contact_phone,omitempty"`
	ManagerID    *uuid.UUID  `json:"manager_id,omitempty"`
	DepartmentID *uuid.UUID  `json:"department_id,omitempty"`
	Items        []ItemInput `json:"order_items"`
	Comments     []string    `json:"comments,omitempty"`
}

// UpdateInput is a save submission. Nil pointers mean "not submitted" and
// leave the stored value untouched; for the reference fields a zero UUID
// explicitly clears the link.
type UpdateInput struct {
	Status  enums.OrderStatus `json:"status" validate:"required"`
	Version *int              `json:"version,omitempty"`

	ClientID     *uuid.UUID `json:"client_id,omitempty"`
	ContactName  *string    `json:"contact_name,omitempty"`
	ContactPhone *string    `json:"contact_phone,omitempty"`

	ManagerID         *uuid.UUID `json:"manager_id,omitempty"`
	DepartmentID      *uuid.UUID `json:"department_id,omitempty"`
	FinalDeliveryDate *time.Time `json:"final_delivery_date,omitempty"`

	BookedUntil *time.Time `json:"booked_until,omitempty"`

	ReadyUntil       *time.Time       `json:"ready_until,omitempty"`
	PrepaymentAmount *decimal.Decimal `json:"prepayment_amount,omitempty"`
	PrepaymentDate   *time.Time       `json:"prepayment_date,omitempty"`

	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	OrderAmount *decimal.Decimal `json:"order_amount,omitempty"`

	CompletionDate *time.Time `json:"completion_date,omitempty"`

	ReturnReason         *string          `json:"return_reason,omitempty"`
	ReturnDate           *time.Time       `json:"return_date,omitempty"`
	ReturnAmount         *decimal.Decimal `json:"return_amount,omitempty"`
	ReturnPaymentDate    *time.Time       `json:"return_payment_date,omitempty"`
	ReturnDocumentNumber *string          `json:"return_document_number,omitempty"`

	Items    *[]ItemInput `json:"order_items,omitempty"`
	Comments *[]string    `json:"comments,omitempty"`
}

// ListFilters narrow the orders list.
type ListFilters struct {
	Status       *enums.OrderStatus
	DepartmentID *uuid.UUID
	ManagerID    *uuid.UUID
	Query        string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// OrderList wraps a page of orders plus the next cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail is a single order plus the status dates derived from its
// change log. StatusDates are display values; the log remains the source
// of truth.
type OrderDetail struct {
	Order       models.Order                    `json:"order"`
	StatusDates map[enums.OrderStatus]time.Time `json:"status_dates"`
	Available   []enums.OrderStatus             `json:"available_statuses"`
}
