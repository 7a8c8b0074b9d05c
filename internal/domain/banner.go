package domain

import (
	"time"

	"github.com/google/uuid"
)

type BannerKind string

const (
	BannerKindOffer    BannerKind = "offer"
	BannerKindFestival BannerKind = "festival"
)

func (k BannerKind) Valid() bool {
	return k == BannerKindOffer || k == BannerKindFestival
}

// Banner is a storefront banner managed by the admin back-office.
type Banner struct {
	ID        uuid.UUID  `json:"id"`
	Kind      BannerKind `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ImageURL  string     `json:"image_url,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}
