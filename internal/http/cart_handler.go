package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// CartService is what the cart endpoints need from internal/cart.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Ledger, error)
	Add(ctx context.Context, sessionID string, line domain.CartLine, qty int) (*cart.Ledger, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cart.Ledger, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Ledger, error)
	Clear(ctx context.Context, sessionID string) (*cart.Ledger, error)
}

// ProductGetter validates product ids and supplies the price/name frozen
// into the cart line.
type ProductGetter interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type CartHandler struct {
	carts    CartService
	products ProductGetter
}

func NewCartHandler(carts CartService, products ProductGetter) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
	}
}

type AddItemRequestDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartViewDTO struct {
	Items     []domain.CartLine `json:"items"`
	Subtotal  int64             `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

func cartView(l *cart.Ledger) CartViewDTO {
	return CartViewDTO{
		Items:     l.Lines(),
		Subtotal:  l.Subtotal(),
		ItemCount: l.ItemCount(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	ledger, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartView(ledger))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// The catalog is the source of truth for name and price; the line keeps
	// a frozen copy.
	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleError(w, err)
		return
	}

	line := domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
	}

	ledger, err := h.carts.Add(r.Context(), sessionID, line, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartView(ledger))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a uuid")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Zero or negative quantity removes the line, same as the trash button.
	ledger, err := h.carts.SetQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartView(ledger))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a uuid")
		return
	}

	ledger, err := h.carts.Remove(r.Context(), sessionID, productID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartView(ledger))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	ledger, err := h.carts.Clear(r.Context(), sessionID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartView(ledger))
}
