package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/delivery"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// OptionSource supplies the active delivery options, cached.
type OptionSource interface {
	Active(ctx context.Context) ([]domain.DeliveryOption, error)
}

type DeliveryHandler struct {
	options OptionSource
	carts   CartService
}

func NewDeliveryHandler(options OptionSource, carts CartService) *DeliveryHandler {
	return &DeliveryHandler{
		options: options,
		carts:   carts,
	}
}

type DeliveryQuoteDTO struct {
	Subtotal       int64     `json:"subtotal"`
	DeliveryCharge int64     `json:"delivery_charge"`
	Total          int64     `json:"total"`
	OptionID       uuid.UUID `json:"option_id,omitempty"`
}

// ListOptions returns the active delivery options in display order.
func (h *DeliveryHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.options.Active(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	if options == nil {
		options = []domain.DeliveryOption{}
	}
	respondJSON(w, http.StatusOK, options)
}

// Quote resolves the delivery charge for the session's current cart. The
// optional ?option_id= query selects a specific option; otherwise the first
// configured option applies.
func (h *DeliveryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	selectedID := uuid.Nil
	if raw := r.URL.Query().Get("option_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_option_id", "option_id must be a uuid")
			return
		}
		selectedID = id
	}

	ledger, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		handleError(w, err)
		return
	}

	options, err := h.options.Active(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	subtotal := ledger.Subtotal()
	charge := delivery.Resolve(selectedID, subtotal, options)

	respondJSON(w, http.StatusOK, DeliveryQuoteDTO{
		Subtotal:       subtotal,
		DeliveryCharge: charge,
		Total:          subtotal + charge,
		OptionID:       selectedID,
	})
}
