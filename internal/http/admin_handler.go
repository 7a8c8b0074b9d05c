package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/media"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/notify"
)

// AdminStore is everything the back-office writes through.
type AdminStore interface {
	CreateProduct(ctx context.Context, p *domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	SetProductImage(ctx context.Context, id uuid.UUID, imageURL string) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	ListRecentOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, note string) error

	UpsertDeliveryOption(ctx context.Context, opt *domain.DeliveryOption) error

	CreateBanner(ctx context.Context, b *domain.Banner) error
	DeactivateBanner(ctx context.Context, id uuid.UUID) error
}

// StatusPublisher announces status changes so the notification consumer can
// record them. Best effort, same as order placement.
type StatusPublisher interface {
	StatusChanged(ctx context.Context, order *domain.Order) error
}

// OptionInvalidator drops the cached delivery options after an admin edit.
type OptionInvalidator interface {
	Invalidate(ctx context.Context)
}

// EventFeed opens a fresh live subscription to the order-events topic. Each
// call gets its own feed so concurrent dashboards all see every event.
type EventFeed func() *notify.Subscription

type AdminHandler struct {
	store   AdminStore
	storage media.ObjectStorage
	events  StatusPublisher
	options OptionInvalidator
	feed    EventFeed
}

func NewAdminHandler(store AdminStore, storage media.ObjectStorage, events StatusPublisher, options OptionInvalidator, feed EventFeed) *AdminHandler {
	return &AdminHandler{
		store:   store,
		storage: storage,
		events:  events,
		options: options,
		feed:    feed,
	}
}

type ProductRequestDTO struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"original_price"`
	ImageURL      string `json:"image_url"`
	Category      string `json:"category"`
	Stock         int    `json:"stock"`
	Featured      bool   `json:"featured"`
}

func (dto *ProductRequestDTO) validate() (string, string) {
	if strings.TrimSpace(dto.Name) == "" {
		return "invalid_name", "name is required"
	}
	if dto.Price < 0 {
		return "invalid_price", "price must not be negative"
	}
	if dto.OriginalPrice != nil && *dto.OriginalPrice < dto.Price {
		return "invalid_original_price", "original_price must not be below price"
	}
	if dto.Stock < 0 {
		return "invalid_stock", "stock must not be negative"
	}
	return "", ""
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if code, msg := req.validate(); code != "" {
		respondError(w, http.StatusBadRequest, code, msg)
		return
	}

	product := &domain.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		Category:      req.Category,
		Stock:         req.Stock,
		Featured:      req.Featured,
	}

	id, err := h.store.CreateProduct(r.Context(), product)
	if err != nil {
		handleError(w, err)
		return
	}
	product.ID = id

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if code, msg := req.validate(); code != "" {
		respondError(w, http.StatusBadRequest, code, msg)
		return
	}

	product := &domain.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		Category:      req.Category,
		Stock:         req.Stock,
		Featured:      req.Featured,
	}

	if err := h.store.UpdateProduct(r.Context(), product); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

const maxImageSize = 5 << 20 // 5 MiB

// UploadProductImage accepts a multipart "image" field, pushes it to object
// storage and points the product at the public URL.
func (h *AdminHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "media_disabled", "media storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return
	}

	if _, err := h.store.GetProduct(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "image field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusBadRequest, "invalid_upload", "only image uploads are accepted")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		handleError(w, err)
		return
	}

	path := fmt.Sprintf("products/%s/%s", id, header.Filename)
	url, err := h.storage.Upload(r.Context(), path, data, contentType)
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.store.SetProductImage(r.Context(), id, url); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	orders, err := h.store.ListRecentOrders(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

type UpdateStatusRequestDTO struct {
	Status domain.OrderStatus `json:"status"`
	Note   string             `json:"note"`
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.store.UpdateOrderStatus(r.Context(), id, req.Status, req.Note); err != nil {
		handleError(w, err)
		return
	}

	order, err := h.store.GetOrderByID(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	if h.events != nil {
		if errPub := h.events.StatusChanged(r.Context(), order); errPub != nil {
			log.Printf("failed to publish status change for order %s: %v", order.ID, errPub)
		}
	}

	respondJSON(w, http.StatusOK, order)
}

type DeliveryOptionRequestDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Charge         int64     `json:"charge"`
	MinOrderAmount *int64    `json:"min_order_amount"`
	IsFree         bool      `json:"is_free"`
	IsActive       bool      `json:"is_active"`
	DisplayOrder   int       `json:"display_order"`
}

// UpsertDeliveryOption creates or updates one delivery option and drops the
// cached option list so storefront reads see the change immediately.
func (h *AdminHandler) UpsertDeliveryOption(w http.ResponseWriter, r *http.Request) {
	var req DeliveryOptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if req.Charge < 0 {
		respondError(w, http.StatusBadRequest, "invalid_charge", "charge must not be negative")
		return
	}
	if req.MinOrderAmount != nil && *req.MinOrderAmount < 0 {
		respondError(w, http.StatusBadRequest, "invalid_min_order_amount", "min_order_amount must not be negative")
		return
	}

	opt := &domain.DeliveryOption{
		ID:             req.ID,
		Name:           req.Name,
		Charge:         req.Charge,
		MinOrderAmount: req.MinOrderAmount,
		IsFree:         req.IsFree,
		IsActive:       req.IsActive,
		DisplayOrder:   req.DisplayOrder,
	}

	if err := h.store.UpsertDeliveryOption(r.Context(), opt); err != nil {
		handleError(w, err)
		return
	}

	if h.options != nil {
		h.options.Invalidate(r.Context())
	}

	respondJSON(w, http.StatusOK, opt)
}

type BannerRequestDTO struct {
	Kind     domain.BannerKind `json:"kind"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	ImageURL string            `json:"image_url"`
}

func (h *AdminHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var req BannerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !req.Kind.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be offer or festival")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "invalid_title", "title is required")
		return
	}

	banner := &domain.Banner{
		Kind:     req.Kind,
		Title:    req.Title,
		Message:  req.Message,
		ImageURL: req.ImageURL,
		IsActive: true,
	}

	if err := h.store.CreateBanner(r.Context(), banner); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, banner)
}

// StreamEvents pushes order events to the back-office dashboard as
// server-sent events until the client goes away.
func (h *AdminHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		respondError(w, http.StatusServiceUnavailable, "events_disabled", "event streaming is not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	sub := h.feed()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("failed to encode order event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}

func (h *AdminHandler) DeactivateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_banner_id", "banner id must be a uuid")
		return
	}

	if err := h.store.DeactivateBanner(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
