package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pocketledger/alerts/internal/application/anomaly"
	"github.com/pocketledger/alerts/internal/pkg/validate"
	"github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// AnalyzeTransactionRequest is the ingest hook payload posted by the ledger
// on each recorded expense.
type AnalyzeTransactionRequest struct {
	CategoryID   string  `json:"category_id" validate:"required"`
	CategoryName string  `json:"category_name" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// TransactionHandler runs spending analysis for incoming transactions.
type TransactionHandler struct {
	svc anomaly.Service
}

func NewTransactionHandler(svc anomaly.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req AnalyzeTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result := h.svc.Analyze(r.Context(), anomaly.Request{
		UserID:       claims.UserID,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Amount:       req.Amount,
	})
	writeJSON(w, http.StatusOK, result)
}
