package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is one customer's rating of a product. A customer key (the session
// id) can hold at most one review per product; resubmitting overwrites it.
type Review struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	CustomerKey string    `json:"-"`
	Rating      int       `json:"rating"`
	ReviewText  string    `json:"review_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
