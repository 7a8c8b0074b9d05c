package domain

import "github.com/google/uuid"

// DeliveryOption is one row of the delivery_settings table. Charge and
// MinOrderAmount are in paise. MinOrderAmount is nil when the option has no
// minimum-order threshold.
type DeliveryOption struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Charge         int64     `json:"charge"`
	MinOrderAmount *int64    `json:"min_order_amount,omitempty"`
	IsFree         bool      `json:"is_free"`
	IsActive       bool      `json:"is_active"`
	DisplayOrder   int       `json:"display_order"`
}
