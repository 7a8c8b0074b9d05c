package store

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrBannerNotFound       = errors.New("banner not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyInWishlist    = errors.New("product already in wishlist")
	ErrReviewNotFound       = errors.New("review not found")
)
