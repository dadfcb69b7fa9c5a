package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// NotificationStore is the slice of the notification repository the read
// endpoints need.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
}

// NotificationHandler serves a user's notification history.
type NotificationHandler struct {
	store NotificationStore
}

func NewNotificationHandler(store NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store}
}

const defaultListLimit = 50

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	notifications, err := h.store.ListByUser(r.Context(), claims.UserID, defaultListLimit)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	n, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	if n.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}
