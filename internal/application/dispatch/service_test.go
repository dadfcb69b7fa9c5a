package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pocketledger/alerts/internal/domain"
)

// --- mocks ---

type mockEmail struct{ mock.Mock }

func (m *mockEmail) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	return m.Called(ctx, to, subject, htmlBody, textBody).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) Send(ctx context.Context, to, body string) error {
	return m.Called(ctx, to, body).Error(0)
}

type mockPush struct{ mock.Mock }

func (m *mockPush) Send(ctx context.Context, sub *domain.PushSubscription, title, body string) error {
	return m.Called(ctx, sub, title, body).Error(0)
}

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) Lookup(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.UserProfile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSubs struct{ mock.Mock }

func (m *mockSubs) Get(ctx context.Context, userID string) (*domain.PushSubscription, error) {
	args := m.Called(ctx, userID)
	if s, _ := args.Get(0).(*domain.PushSubscription); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOutcomeStore struct{ mock.Mock }

func (m *mockOutcomeStore) MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error {
	return m.Called(ctx, notificationID, sentAt).Error(0)
}
func (m *mockOutcomeStore) MarkFailed(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

func testNotification(channels ...domain.Channel) *domain.Notification {
	return &domain.Notification{
		NotificationID: "n1",
		UserID:         "u1",
		Type:           domain.TypeUnusualSpendingDetected,
		Title:          "Unusual Spending Detected",
		Message:        "You spent $60.00 on Dining.",
		Priority:       domain.PriorityHigh,
		Channels:       channels,
		Status:         domain.StatusPending,
	}
}

func newTestService(em *mockEmail, sm *mockSMS, pu *mockPush, dir *mockDirectory, subs *mockSubs, st *mockOutcomeStore) Service {
	return NewService(Deps{
		Email: em, SMS: sm, Push: pu,
		Directory: dir, Subscriptions: subs, Store: st,
	})
}

// --- Send tests ---

func TestSend_EmailHappyPath(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("Lookup", mock.Anything, "u1").Return(&domain.UserProfile{UserID: "u1", Email: "u1@example.com"}, nil)
	em := &mockEmail{}
	em.On("Send", mock.Anything, "u1@example.com", "Unusual Spending Detected", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(em, nil, nil, dir, nil, nil)
	ok := svc.Send(context.Background(), testNotification(domain.ChannelEmail), domain.ChannelEmail)

	assert.True(t, ok)
	em.AssertExpectations(t)
}

func TestSend_EmailMissingAddress(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("Lookup", mock.Anything, "u1").Return(&domain.UserProfile{UserID: "u1"}, nil)

	em := &mockEmail{}
	svc := newTestService(em, nil, nil, dir, nil, nil)
	ok := svc.Send(context.Background(), testNotification(domain.ChannelEmail), domain.ChannelEmail)

	assert.False(t, ok)
	em.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Provider failures resolve to false, never to an error.
func TestSend_ProviderFailureReturnsFalse(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("Lookup", mock.Anything, "u1").Return(&domain.UserProfile{UserID: "u1", Email: "u1@example.com"}, nil)
	em := &mockEmail{}
	em.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("550 rejected"))

	svc := newTestService(em, nil, nil, dir, nil, nil)
	ok := svc.Send(context.Background(), testNotification(domain.ChannelEmail), domain.ChannelEmail)

	assert.False(t, ok)
}

func TestSend_SMSRequiresVerifiedPhone(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("Lookup", mock.Anything, "u1").Return(&domain.UserProfile{
		UserID: "u1", PhoneNumber: "+15551234567", PhoneVerified: false,
	}, nil)

	sm := &mockSMS{}
	svc := newTestService(nil, sm, nil, dir, nil, nil)
	ok := svc.Send(context.Background(), testNotification(domain.ChannelSMS), domain.ChannelSMS)

	assert.False(t, ok)
	sm.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_PushWithoutSubscriptionFails(t *testing.T) {
	subs := &mockSubs{}
	subs.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	pu := &mockPush{}
	svc := newTestService(nil, nil, pu, nil, subs, nil)
	ok := svc.Send(context.Background(), testNotification(domain.ChannelPush), domain.ChannelPush)

	assert.False(t, ok)
	pu.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_InAppAlwaysSucceeds(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil, nil)
	assert.True(t, svc.Send(context.Background(), testNotification(domain.ChannelInApp), domain.ChannelInApp))
}

// --- Deliver tests ---

func TestDeliver_AnySuccessMarksSent(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("Lookup", mock.Anything, "u1").Return(&domain.UserProfile{UserID: "u1"}, nil) // email fails: no address
	st := &mockOutcomeStore{}
	st.On("MarkSent", mock.Anything, "n1", mock.AnythingOfType("time.Time")).Return(nil)

	svc := newTestService(&mockEmail{}, nil, nil, dir, nil, st)
	n := testNotification(domain.ChannelEmail, domain.ChannelInApp)
	ok := svc.Deliver(context.Background(), n)

	assert.True(t, ok)
	assert.Equal(t, domain.StatusSent, n.Status)
	assert.NotNil(t, n.SentAt)
	st.AssertExpectations(t)
}

func TestDeliver_AllChannelsFailMarksFailed(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("Lookup", mock.Anything, "u1").Return(nil, errors.New("directory down"))
	subs := &mockSubs{}
	subs.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	st := &mockOutcomeStore{}
	st.On("MarkFailed", mock.Anything, "n1").Return(nil)

	svc := newTestService(&mockEmail{}, &mockSMS{}, &mockPush{}, dir, subs, st)
	n := testNotification(domain.ChannelEmail, domain.ChannelPush)
	ok := svc.Deliver(context.Background(), n)

	assert.False(t, ok)
	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Equal(t, 1, n.RetryCount)
	st.AssertExpectations(t)
}
