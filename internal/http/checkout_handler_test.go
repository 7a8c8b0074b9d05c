package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/checkout"
)

type mockSubmitter struct {
	conf     *checkout.Confirmation
	err      error
	gotForm  checkout.Form
	sessions []string
}

func (m *mockSubmitter) Submit(_ context.Context, sessionID string, form checkout.Form) (*checkout.Confirmation, error) {
	m.sessions = append(m.sessions, sessionID)
	m.gotForm = form
	if m.err != nil {
		return nil, m.err
	}
	return m.conf, nil
}

func newRawRequest(method, path, body, session string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func checkoutTestRouter(submitter OrderSubmitter) http.Handler {
	h := NewCheckoutHandler(submitter)
	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Post("/checkout", h.Checkout)
	return r
}

func validCheckoutDTO() CheckoutRequestDTO {
	return CheckoutRequestDTO{
		Name:          "Asha Verma",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		Address:       "12 MG Road",
		City:          "Jaipur",
		State:         "Rajasthan",
		Pincode:       "302001",
		PaymentMethod: "cod",
	}
}

func TestCheckout_Success(t *testing.T) {
	orderID := uuid.New()
	submitter := &mockSubmitter{conf: &checkout.Confirmation{OrderID: orderID, TotalAmount: 2599}}
	router := checkoutTestRouter(submitter)

	dto := validCheckoutDTO()
	dto.DeliveryOptionID = uuid.New()

	rec := doJSON(t, router, http.MethodPost, "/checkout", dto, "s1")

	require.Equal(t, http.StatusCreated, rec.Code)
	var conf checkout.Confirmation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conf))
	assert.Equal(t, orderID, conf.OrderID)
	assert.Equal(t, int64(2599), conf.TotalAmount)

	require.Len(t, submitter.sessions, 1)
	assert.Equal(t, "s1", submitter.sessions[0])
	assert.Equal(t, "asha@example.com", submitter.gotForm.Email)
	assert.Equal(t, dto.DeliveryOptionID, submitter.gotForm.DeliveryOptionID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	submitter := &mockSubmitter{err: checkout.ErrEmptyCart}
	router := checkoutTestRouter(submitter)

	rec := doJSON(t, router, http.MethodPost, "/checkout", validCheckoutDTO(), "s1")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "empty_cart", body.Code)
}

func TestCheckout_ValidationError(t *testing.T) {
	submitter := &mockSubmitter{err: &checkout.ValidationError{Field: "pincode", Reason: "required"}}
	router := checkoutTestRouter(submitter)

	rec := doJSON(t, router, http.MethodPost, "/checkout", validCheckoutDTO(), "s1")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_error", body.Code)
	assert.Equal(t, "pincode", body.Field)
}

func TestCheckout_MalformedBody(t *testing.T) {
	submitter := &mockSubmitter{}
	router := checkoutTestRouter(submitter)

	req := newRawRequest(http.MethodPost, "/checkout", "{not json", "s1")
	rec := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, submitter.sessions)
}

func TestCheckout_InternalError(t *testing.T) {
	submitter := &mockSubmitter{err: assert.AnError}
	router := checkoutTestRouter(submitter)

	rec := doJSON(t, router, http.MethodPost, "/checkout", validCheckoutDTO(), "s1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
