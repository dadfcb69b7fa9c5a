package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/pkg/validate"
	"github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// SubscriptionStore is the slice of the push-subscription repository the
// registration endpoint needs.
type SubscriptionStore interface {
	Put(ctx context.Context, s *domain.PushSubscription) error
	Delete(ctx context.Context, userID string) error
}

// RegisterSubscriptionRequest mirrors the browser PushSubscription object.
type RegisterSubscriptionRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// SubscriptionHandler registers and removes Web Push subscriptions.
type SubscriptionHandler struct {
	store SubscriptionStore
}

func NewSubscriptionHandler(store SubscriptionStore) *SubscriptionHandler {
	return &SubscriptionHandler{store: store}
}

func (h *SubscriptionHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req RegisterSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub := &domain.PushSubscription{
		UserID:    claims.UserID,
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Put(r.Context(), sub); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "subscription registered"})
}

func (h *SubscriptionHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.store.Delete(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "subscription removed"})
}
