package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pocketledger/alerts/internal/application/pattern"
	"github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// PatternHandler exposes a user's per-category spending models.
type PatternHandler struct {
	svc pattern.Service
}

func NewPatternHandler(svc pattern.Service) *PatternHandler {
	return &PatternHandler{svc: svc}
}

func (h *PatternHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "categoryID"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Reset deletes the stored model so the category starts learning from scratch.
func (h *PatternHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Reset(r.Context(), claims.UserID, chi.URLParam(r, "categoryID")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pattern reset"})
}
