package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/alerts/internal/application/anomaly"
	jwtinfra "github.com/pocketledger/alerts/internal/infrastructure/jwt"
	"github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// --- mock ---

type mockAnomalySvc struct{ mock.Mock }

func (m *mockAnomalySvc) Analyze(ctx context.Context, req anomaly.Request) anomaly.Result {
	args := m.Called(ctx, req)
	return args.Get(0).(anomaly.Result)
}

// authedReq builds a request carrying verified claims for userID, as the auth
// middleware would have left them.
func authedReq(method, target, userID string, body []byte) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	claims := &jwtinfra.Claims{UserID: userID}
	return r.WithContext(context.WithValue(r.Context(), middleware.ClaimsKey, claims))
}

// --- Analyze tests ---

func TestAnalyze_Unauthenticated(t *testing.T) {
	h := NewTransactionHandler(&mockAnomalySvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/transactions/analyze", bytes.NewBufferString("{}"))
	rr := httptest.NewRecorder()
	h.Analyze(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAnalyze_InvalidBody(t *testing.T) {
	h := NewTransactionHandler(&mockAnomalySvc{})
	r := authedReq(http.MethodPost, "/v1/transactions/analyze", "u1", []byte("not-json"))
	rr := httptest.NewRecorder()
	h.Analyze(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyze_ValidationFailure(t *testing.T) {
	h := NewTransactionHandler(&mockAnomalySvc{})
	body, _ := json.Marshal(AnalyzeTransactionRequest{CategoryID: "dining"}) // missing name, amount
	r := authedReq(http.MethodPost, "/v1/transactions/analyze", "u1", body)
	rr := httptest.NewRecorder()
	h.Analyze(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyze_HappyPath(t *testing.T) {
	svc := &mockAnomalySvc{}
	svc.On("Analyze", mock.Anything, anomaly.Request{
		UserID: "u1", CategoryID: "dining", CategoryName: "Dining", Amount: 60,
	}).Return(anomaly.Result{Unusual: true, DeviationPct: 200})

	h := NewTransactionHandler(svc)
	body, _ := json.Marshal(AnalyzeTransactionRequest{
		CategoryID: "dining", CategoryName: "Dining", Amount: 60,
	})
	r := authedReq(http.MethodPost, "/v1/transactions/analyze", "u1", body)
	rr := httptest.NewRecorder()
	h.Analyze(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var res anomaly.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Unusual)
	assert.Equal(t, 200.0, res.DeviationPct)
	svc.AssertExpectations(t)
}
