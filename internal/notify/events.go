package notify

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderPlaced   = "order.placed"
	EventStatusChanged = "order.status_changed"
)

// OrderEvent is the JSON payload published on the order-events topic for
// every placed order and every admin status change.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       uuid.UUID `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	TotalAmount   int64     `json:"total_amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}
