package domain

import "time"

type OrderStatus string

const (
	OrderPending        OrderStatus = "PENDING"
	OrderConfirmed      OrderStatus = "CONFIRMED"
	OrderProcessing     OrderStatus = "PROCESSING"
	OrderReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderCompleted      OrderStatus = "COMPLETED"
	OrderCancelled      OrderStatus = "CANCELLED"
	OrderRefunded       OrderStatus = "REFUNDED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderReadyForPickup,
		OrderCompleted, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled || s == OrderRefunded
}

// CanTransitionTo enforces the order state machine:
// PENDING -> CONFIRMED -> PROCESSING -> READY_FOR_PICKUP -> COMPLETED,
// with CANCELLED/REFUNDED reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderCancelled || next == OrderRefunded {
		return true
	}

	switch s {
	case OrderPending:
		return next == OrderConfirmed
	case OrderConfirmed:
		return next == OrderProcessing
	case OrderProcessing:
		return next == OrderReadyForPickup
	case OrderReadyForPickup:
		return next == OrderCompleted
	}
	return false
}

// Order is created atomically with its items, the stock decrement and the
// SPENT ledger entry. Item snapshots are frozen at purchase time.
type Order struct {
	ID          uint        `json:"id"`
	OrderNumber string      `json:"order_number"`
	UserID      uint        `json:"user_id"`
	TotalPoints int         `json:"total_points"`
	TotalItems  int         `json:"total_items"`
	Status      OrderStatus `json:"status"`
	Notes       string      `json:"notes,omitempty"`
	CollegeID   uint        `json:"college_id"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID            uint      `json:"id"`
	ProductID     uint      `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	PointsPerItem int       `json:"points_per_item"`
	TotalPoints   int       `json:"total_points"`
	CreatedAt     time.Time `json:"created_at"`
}
