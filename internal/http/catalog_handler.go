package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/store"
)

// Catalog is the read side of the product table plus storefront banners.
type Catalog interface {
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ActiveBanners(ctx context.Context, kind domain.BannerKind) ([]domain.Banner, error)
}

type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := store.ProductFilter{
		Category:     r.URL.Query().Get("category"),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// ListBanners returns the active storefront banners, optionally filtered by
// ?kind=offer or ?kind=festival.
func (h *CatalogHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	kind := domain.BannerKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be offer or festival")
		return
	}

	banners, err := h.catalog.ActiveBanners(r.Context(), kind)
	if err != nil {
		handleError(w, err)
		return
	}

	if banners == nil {
		banners = []domain.Banner{}
	}
	respondJSON(w, http.StatusOK, banners)
}
