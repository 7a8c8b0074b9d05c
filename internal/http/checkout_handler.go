package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/checkout"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// OrderSubmitter places an order for a session's cart.
type OrderSubmitter interface {
	Submit(ctx context.Context, sessionID string, form checkout.Form) (*checkout.Confirmation, error)
}

type CheckoutHandler struct {
	submitter OrderSubmitter
}

func NewCheckoutHandler(submitter OrderSubmitter) *CheckoutHandler {
	return &CheckoutHandler{submitter: submitter}
}

type CheckoutRequestDTO struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Pincode          string    `json:"pincode"`
	PaymentMethod    string    `json:"payment_method"`
	DeliveryOptionID uuid.UUID `json:"delivery_option_id"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	form := checkout.Form{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		PaymentMethod:    domain.PaymentMethod(req.PaymentMethod),
		DeliveryOptionID: req.DeliveryOptionID,
	}

	confirmation, err := h.submitter.Submit(r.Context(), sessionID, form)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, confirmation)
}
