package enums

import "fmt"

// OrderStatus tracks the lifecycle of a back-office order. The values are
// totally ordered; Index exposes the position used by the workflow rules.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusBooked    OrderStatus = "booked"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusReturned  OrderStatus = "returned"
)

// orderStatusLadder fixes the canonical progression order.
var orderStatusLadder = []OrderStatus{
	OrderStatusCreated,
	OrderStatusConfirmed,
	OrderStatusBooked,
	OrderStatusReady,
	OrderStatusPaid,
	OrderStatusCompleted,
	OrderStatusReturned,
}

// OrderStatuses returns every status in progression order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatusLadder))
	copy(out, orderStatusLadder)
	return out
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range orderStatusLadder {
		if candidate == s {
			return true
		}
	}
	return false
}

// Index returns the zero-based position in the progression, or -1 when unknown.
func (s OrderStatus) Index() int {
	for i, candidate := range orderStatusLadder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// After reports whether s sits strictly after other in the progression.
func (s OrderStatus) After(other OrderStatus) bool {
	si, oi := s.Index(), other.Index()
	return si >= 0 && oi >= 0 && si > oi
}

// Before reports whether s sits strictly before other in the progression.
func (s OrderStatus) Before(other OrderStatus) bool {
	si, oi := s.Index(), other.Index()
	return si >= 0 && oi >= 0 && si < oi
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range orderStatusLadder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
