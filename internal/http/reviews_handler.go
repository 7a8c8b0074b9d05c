package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// ReviewStore reads and writes product reviews, one per customer key and
// product.
type ReviewStore interface {
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]domain.Review, error)
	UpsertProductReview(ctx context.Context, r *domain.Review) error
	DeleteProductReview(ctx context.Context, productID uuid.UUID, customerKey string) error
}

type ReviewsHandler struct {
	reviews  ReviewStore
	products ProductGetter
}

func NewReviewsHandler(reviews ReviewStore, products ProductGetter) *ReviewsHandler {
	return &ReviewsHandler{
		reviews:  reviews,
		products: products,
	}
}

type SubmitReviewRequestDTO struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type ReviewDTO struct {
	domain.Review
	Mine bool `json:"mine"`
}

type ReviewListDTO struct {
	AverageRating float64     `json:"average_rating"`
	Count         int         `json:"count"`
	Reviews       []ReviewDTO `json:"reviews"`
}

func reviewList(reviews []domain.Review, sessionID string) ReviewListDTO {
	out := ReviewListDTO{Reviews: make([]ReviewDTO, len(reviews))}

	var sum int
	for i, r := range reviews {
		sum += r.Rating
		out.Reviews[i] = ReviewDTO{
			Review: r,
			Mine:   r.CustomerKey == sessionID,
		}
	}

	out.Count = len(reviews)
	if out.Count > 0 {
		out.AverageRating = float64(sum) / float64(out.Count)
	}
	return out
}

// List returns a product's reviews with the average rating, flagging the
// session's own review so the storefront can prefill the form.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	reviews, err := h.reviews.ListProductReviews(r.Context(), productID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, reviewList(reviews, sessionID))
}

// Submit creates the session's review of a product, or overwrites it if one
// already exists.
func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	var req SubmitReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5")
		return
	}

	if _, err := h.products.GetProduct(r.Context(), productID); err != nil {
		handleError(w, err)
		return
	}

	review := &domain.Review{
		ProductID:   productID,
		CustomerKey: sessionID,
		Rating:      req.Rating,
		ReviewText:  req.ReviewText,
	}

	if err := h.reviews.UpsertProductReview(r.Context(), review); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ReviewDTO{Review: *review, Mine: true})
}

// Delete removes the session's own review of a product.
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	if err := h.reviews.DeleteProductReview(r.Context(), productID, sessionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
