package domain

import "github.com/google/uuid"

// CartLine is a single product entry in a session's cart. Price is a unit
// price in paise, frozen into the line when the product is added.
type CartLine struct {
	ProductID uuid.UUID `bson:"product_id" json:"product_id"`
	Name      string    `bson:"name" json:"name"`
	Price     int64     `bson:"price" json:"price"`
	ImageURL  string    `bson:"image_url" json:"image_url"`
	Quantity  int       `bson:"quantity" json:"quantity"`
}
