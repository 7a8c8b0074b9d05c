package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/checkout"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps service and store errors to HTTP responses. Anything
// unrecognized is a 500 with a generic body; details stay in the log.
func handleError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: validationErr.Reason,
			Code:  "validation_error",
			Field: validationErr.Field,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, store.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, store.ErrBannerNotFound):
		respondError(w, http.StatusNotFound, "not_found", "banner not found")
	case errors.Is(err, store.ErrNotificationNotFound):
		respondError(w, http.StatusNotFound, "not_found", "notification not found")
	case errors.Is(err, store.ErrReviewNotFound):
		respondError(w, http.StatusNotFound, "not_found", "review not found")
	case errors.Is(err, store.ErrAlreadyInWishlist):
		respondError(w, http.StatusConflict, "already_exists", "product already in wishlist")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
