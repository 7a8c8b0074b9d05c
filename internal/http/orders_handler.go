package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// OrderReader is the read side of the order tables.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	ListStatusHistory(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error)
}

type OrdersHandler struct {
	orders OrderReader
}

func NewOrdersHandler(orders OrderReader) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type OrderDetailDTO struct {
	Order   *domain.Order         `json:"order"`
	Items   []domain.OrderItem    `json:"items"`
	History []domain.StatusChange `json:"history"`
}

// GetOrder returns one order with its frozen items and status timeline. The
// order id doubles as the lookup token on the confirmation page, so there is
// no session check here.
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return
	}

	order, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	items, err := h.orders.ListOrderItems(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	history, err := h.orders.ListStatusHistory(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, OrderDetailDTO{
		Order:   order,
		Items:   items,
		History: history,
	})
}
