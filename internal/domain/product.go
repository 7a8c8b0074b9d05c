package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is one row of the products table. Prices are in paise.
// OriginalPrice is nil unless the product is discounted.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	ImageURL      string    `json:"image_url"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
}
