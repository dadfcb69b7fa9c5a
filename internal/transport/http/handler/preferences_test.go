package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/alerts/internal/domain"
)

// --- mock ---

type mockPrefSvc struct{ mock.Mock }

func (m *mockPrefSvc) GetOrCreate(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.NotificationPreferences); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPrefSvc) Update(ctx context.Context, p *domain.NotificationPreferences) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPrefSvc) ShouldSend(ctx context.Context, userID string, kind domain.NotificationType, ch domain.Channel) bool {
	return m.Called(ctx, userID, kind, ch).Bool(0)
}

// --- Get tests ---

func TestPreferencesGet_ReturnsRecord(t *testing.T) {
	svc := &mockPrefSvc{}
	svc.On("GetOrCreate", mock.Anything, "u1").Return(domain.DefaultPreferences("u1"), nil)

	h := NewPreferenceHandler(svc)
	r := authedReq(http.MethodGet, "/v1/preferences", "u1", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var p domain.NotificationPreferences
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.UnusualSpendingAlerts)
}

// --- Update tests ---

func validUpdate() UpdatePreferencesRequest {
	return UpdatePreferencesRequest{
		LowBalanceAlerts: true, UnusualSpendingAlerts: true, BillReminders: true,
		EmailNotifications: true, PushNotifications: true,
		QuietHoursStart: "22:00", QuietHoursEnd: "08:00",
	}
}

func TestPreferencesUpdate_HappyPath(t *testing.T) {
	svc := &mockPrefSvc{}
	svc.On("Update", mock.Anything, mock.AnythingOfType("*domain.NotificationPreferences")).Return(nil)

	h := NewPreferenceHandler(svc)
	body, _ := json.Marshal(validUpdate())
	r := authedReq(http.MethodPut, "/v1/preferences", "u1", body)
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var p domain.NotificationPreferences
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	// The authenticated user owns the record regardless of the payload.
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "22:00", p.QuietHoursStart)
	svc.AssertExpectations(t)
}

func TestPreferencesUpdate_RejectsBadQuietHours(t *testing.T) {
	svc := &mockPrefSvc{}
	h := NewPreferenceHandler(svc)

	req := validUpdate()
	req.QuietHoursStart = "25:99"
	body, _ := json.Marshal(req)
	r := authedReq(http.MethodPut, "/v1/preferences", "u1", body)
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPreferencesUpdate_RejectsBadPhoneNumber(t *testing.T) {
	svc := &mockPrefSvc{}
	h := NewPreferenceHandler(svc)

	req := validUpdate()
	req.SMSNotifications = true
	req.SMSPhoneNumber = "not-a-number"
	body, _ := json.Marshal(req)
	r := authedReq(http.MethodPut, "/v1/preferences", "u1", body)
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
