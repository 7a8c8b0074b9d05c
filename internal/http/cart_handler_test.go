package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/store"
)

type mockCartService struct {
	m      sync.Mutex
	carts  map[string]*cart.Ledger
	err    error
}

func newMockCartService() *mockCartService {
	return &mockCartService{carts: make(map[string]*cart.Ledger)}
}

func (m *mockCartService) ledger(sessionID string) *cart.Ledger {
	l, ok := m.carts[sessionID]
	if !ok {
		l = cart.NewLedger(nil)
		m.carts[sessionID] = l
	}
	return l
}

func (m *mockCartService) Get(_ context.Context, sessionID string) (*cart.Ledger, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.ledger(sessionID), nil
}

func (m *mockCartService) Add(_ context.Context, sessionID string, line domain.CartLine, qty int) (*cart.Ledger, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	l := m.ledger(sessionID)
	l.Add(line, qty)
	return l, nil
}

func (m *mockCartService) SetQuantity(_ context.Context, sessionID string, productID uuid.UUID, qty int) (*cart.Ledger, error) {
	m.m.Lock()
	defer m.m.Unlock()
	l := m.ledger(sessionID)
	l.SetQuantity(productID, qty)
	return l, nil
}

func (m *mockCartService) Remove(_ context.Context, sessionID string, productID uuid.UUID) (*cart.Ledger, error) {
	m.m.Lock()
	defer m.m.Unlock()
	l := m.ledger(sessionID)
	l.Remove(productID)
	return l, nil
}

func (m *mockCartService) Clear(_ context.Context, sessionID string) (*cart.Ledger, error) {
	m.m.Lock()
	defer m.m.Unlock()
	l := m.ledger(sessionID)
	l.Clear()
	return l, nil
}

type mockProductGetter struct {
	products map[uuid.UUID]*domain.Product
}

func (m *mockProductGetter) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return p, nil
}

func cartTestRouter(carts CartService, products ProductGetter) http.Handler {
	h := NewCartHandler(carts, products)
	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Get("/cart", h.GetCart)
	r.Delete("/cart", h.ClearCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{product_id}", h.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", h.RemoveItem)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, session string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) CartViewDTO {
	t.Helper()
	var view CartViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func TestGetCart_EmptyForFreshSession(t *testing.T) {
	router := cartTestRouter(newMockCartService(), &mockProductGetter{})

	rec := doJSON(t, router, http.MethodGet, "/cart", nil, "s1")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCartView(t, rec)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.Subtotal)
	assert.Equal(t, 0, view.ItemCount)
}

func TestGetCart_MintsSessionCookie(t *testing.T) {
	router := cartTestRouter(newMockCartService(), &mockProductGetter{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "ratnaya_session", cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
}

func TestAddItem_FreezesCatalogPrice(t *testing.T) {
	product := &domain.Product{
		ID:       uuid.New(),
		Name:     "Gold Ring",
		Price:    249900,
		ImageURL: "https://cdn.example.com/ring.jpg",
	}
	products := &mockProductGetter{products: map[uuid.UUID]*domain.Product{product.ID: product}}
	router := cartTestRouter(newMockCartService(), products)

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		AddItemRequestDTO{ProductID: product.ID, Quantity: 2}, "s1")

	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Gold Ring", view.Items[0].Name)
	assert.Equal(t, int64(249900), view.Items[0].Price)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(499800), view.Subtotal)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router := cartTestRouter(newMockCartService(), &mockProductGetter{})

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		AddItemRequestDTO{ProductID: uuid.New(), Quantity: 1}, "s1")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	router := cartTestRouter(newMockCartService(), &mockProductGetter{})

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		AddItemRequestDTO{Quantity: 1}, "s1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	product := &domain.Product{ID: uuid.New(), Name: "Gold Ring", Price: 1000}
	products := &mockProductGetter{products: map[uuid.UUID]*domain.Product{product.ID: product}}
	carts := newMockCartService()
	router := cartTestRouter(carts, products)

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		AddItemRequestDTO{ProductID: product.ID, Quantity: 3}, "s1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/cart/items/%s", product.ID),
		UpdateQuantityRequestDTO{Quantity: 0}, "s1")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCartView(t, rec)
	assert.Empty(t, view.Items)
}

func TestRemoveItem_IsIdempotent(t *testing.T) {
	product := &domain.Product{ID: uuid.New(), Name: "Gold Ring", Price: 1000}
	products := &mockProductGetter{products: map[uuid.UUID]*domain.Product{product.ID: product}}
	router := cartTestRouter(newMockCartService(), products)

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		AddItemRequestDTO{ProductID: product.ID, Quantity: 1}, "s1")
	require.Equal(t, http.StatusCreated, rec.Code)

	path := fmt.Sprintf("/cart/items/%s", product.ID)
	rec = doJSON(t, router, http.MethodDelete, path, nil, "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	// Removing again still succeeds with the same empty cart.
	rec = doJSON(t, router, http.MethodDelete, path, nil, "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartView(t, rec).Items)
}

func TestSessionsAreIsolated(t *testing.T) {
	product := &domain.Product{ID: uuid.New(), Name: "Gold Ring", Price: 1000}
	products := &mockProductGetter{products: map[uuid.UUID]*domain.Product{product.ID: product}}
	router := cartTestRouter(newMockCartService(), products)

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		AddItemRequestDTO{ProductID: product.ID, Quantity: 1}, "session-a")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/cart", nil, "session-b")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCartView(t, rec).Items)
}
