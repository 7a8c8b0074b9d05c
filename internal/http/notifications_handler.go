package http

import (
	"context"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// NotificationStore reads and updates a customer's order notifications.
type NotificationStore interface {
	ListNotifications(ctx context.Context, customerEmail string, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, customerEmail string) error
}

type NotificationsHandler struct {
	notifications NotificationStore
}

func NewNotificationsHandler(notifications NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

const defaultNotificationLimit = 50

// List returns a customer's notifications, newest first. There is no login;
// the email the customer checked out with is the lookup key.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "email query parameter must be a valid address")
		return
	}

	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	notifications, err := h.notifications.ListNotifications(r.Context(), email, limit)
	if err != nil {
		handleError(w, err)
		return
	}

	if notifications == nil {
		notifications = []domain.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_notification_id", "notification id must be a uuid")
		return
	}

	if err := h.notifications.MarkNotificationRead(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "email query parameter must be a valid address")
		return
	}

	if err := h.notifications.MarkAllNotificationsRead(r.Context(), email); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
