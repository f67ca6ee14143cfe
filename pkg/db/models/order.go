package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partslane/backoffice-backend/pkg/enums"
)

// Order represents a customer order moving through the seven-stage workflow.
// The per-status columns stay NULL until the order reaches the stage that
// requires them; the workflow validator enforces that cumulatively.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status       enums.OrderStatus `gorm:"column:status;type:text;not null;default:'created'"`
	ClientID     *uuid.UUID        `gorm:"column:client_id;type:uuid"`
	ManagerID    *uuid.UUID        `gorm:"column:manager_id;type:uuid"`
	DepartmentID *uuid.UUID        `gorm:"column:department_id;type:uuid"`

	// Lead contact, used until a client account is linked.
	ContactName  *string `gorm:"column:contact_name"`
	ContactPhone *string `gorm:"column:contact_phone"`

	ConfirmationDate  *time.Time `gorm:"column:confirmation_date"`
	FinalDeliveryDate *time.Time `gorm:"column:final_delivery_date"`
	BookedUntil       *time.Time `gorm:"column:booked_until"`

	ReadyUntil       *time.Time       `gorm:"column:ready_until"`
	PrepaymentAmount *decimal.Decimal `gorm:"column:prepayment_amount;type:numeric(12,2)"`
	PrepaymentDate   *time.Time       `gorm:"column:prepayment_date"`

	PaymentDate *time.Time       `gorm:"column:payment_date"`
	OrderAmount *decimal.Decimal `gorm:"column:order_amount;type:numeric(12,2)"`

	CompletionDate *time.Time `gorm:"column:completion_date"`

	ReturnReason         *string          `gorm:"column:return_reason"`
	ReturnDate           *time.Time       `gorm:"column:return_date"`
	ReturnAmount         *decimal.Decimal `gorm:"column:return_amount;type:numeric(12,2)"`
	ReturnPaymentDate    *time.Time       `gorm:"column:return_payment_date"`
	ReturnDocumentNumber *string          `gorm:"column:return_document_number"`

	// Version guards concurrent saves; bumped on every successful update.
	Version int `gorm:"column:version;not null;default:1"`

	Client     *User          `gorm:"foreignKey:ClientID"`
	Manager    *User          `gorm:"foreignKey:ManagerID"`
	Department *Department    `gorm:"foreignKey:DepartmentID"`
	Items      []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Comments   []OrderComment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
