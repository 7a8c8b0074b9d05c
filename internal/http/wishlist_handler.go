package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// WishlistStore keys saved products by the customer's session id.
type WishlistStore interface {
	AddToWishlist(ctx context.Context, customerKey string, productID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, customerKey string, productID uuid.UUID) error
	ListWishlist(ctx context.Context, customerKey string) ([]*domain.Product, error)
}

type WishlistHandler struct {
	wishlist WishlistStore
	products ProductGetter
}

func NewWishlistHandler(wishlist WishlistStore, products ProductGetter) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		products: products,
	}
}

type WishlistAddRequestDTO struct {
	ProductID uuid.UUID `json:"product_id"`
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	products, err := h.wishlist.ListWishlist(r.Context(), sessionID)
	if err != nil {
		handleError(w, err)
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req WishlistAddRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// Verify the product exists before saving the reference.
	if _, err := h.products.GetProduct(r.Context(), req.ProductID); err != nil {
		handleError(w, err)
		return
	}

	if err := h.wishlist.AddToWishlist(r.Context(), sessionID, req.ProductID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a uuid")
		return
	}

	if err := h.wishlist.RemoveFromWishlist(r.Context(), sessionID, productID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
