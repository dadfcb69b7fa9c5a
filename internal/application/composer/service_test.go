package composer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/alerts/internal/domain"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func acceptingStore() *mockStore {
	st := &mockStore{}
	st.On("Put", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
	return st
}

// --- Compose tests ---

func TestCompose_UnusualSpending(t *testing.T) {
	st := acceptingStore()
	svc := NewService(st)

	n, err := svc.ComposeUnusualSpending(context.Background(), "u1", "Dining", 60, 200)

	require.NoError(t, err)
	assert.Equal(t, domain.TypeUnusualSpendingDetected, n.Type)
	assert.Equal(t, "Unusual Spending Detected", n.Title)
	assert.Equal(t, domain.PriorityHigh, n.Priority)
	assert.Equal(t, domain.StatusPending, n.Status)
	assert.Contains(t, n.Message, "$60.00")
	assert.Contains(t, n.Message, "Dining")
	assert.Contains(t, n.Message, "200.0%")
	assert.Equal(t, "200.0", n.Metadata["deviation_pct"])
	assert.NotEmpty(t, n.NotificationID)
	st.AssertExpectations(t)
}

func TestCompose_DefaultsToInAppChannel(t *testing.T) {
	svc := NewService(acceptingStore())

	n, err := svc.Compose(context.Background(), domain.TypeBudgetExceeded, "u1", Args{
		CategoryName: "Groceries", Amount: 450, BudgetLimit: 400,
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Channel{domain.ChannelInApp}, n.Channels)
}

func TestCompose_UnknownKindRejected(t *testing.T) {
	st := &mockStore{}
	svc := NewService(st)

	_, err := svc.Compose(context.Background(), domain.NotificationType("made_up"), "u1", Args{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- bill reminder matrix ---

func TestComposeBillReminder(t *testing.T) {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		daysUntilDue int
		wantKind     domain.NotificationType
		wantTitle    string
		wantPriority domain.Priority
	}{
		{"due today", 0, domain.TypeBillReminderToday, "Bill Due Today", domain.PriorityUrgent},
		{"due tomorrow", 1, domain.TypeBillReminder1Day, "Bill Due Tomorrow", domain.PriorityHigh},
		{"due in three days", 3, domain.TypeBillReminder3Days, "Bill Due Soon", domain.PriorityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(acceptingStore())
			n, err := svc.ComposeBillReminder(context.Background(), "u1", "Electricity", 82.50, due, tt.daysUntilDue)

			require.NoError(t, err)
			require.NotNil(t, n)
			assert.Equal(t, tt.wantKind, n.Type)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantPriority, n.Priority)
			assert.Contains(t, n.Message, "$82.50")
		})
	}
}

func TestComposeBillReminder_UnmappedDaysComposeNothing(t *testing.T) {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, days := range []int{-1, 2, 4, 7, 30} {
		st := &mockStore{}
		svc := NewService(st)

		n, err := svc.ComposeBillReminder(context.Background(), "u1", "Electricity", 82.50, due, days)

		require.NoError(t, err)
		assert.Nil(t, n, "daysUntilDue=%d should compose nothing", days)
		st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	}
}

// --- Schedule tests ---

func TestSchedule_SetsScheduledStatusAndTime(t *testing.T) {
	svc := NewService(acceptingStore())
	at := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	n, err := svc.Schedule(context.Background(), domain.TypeWeeklySummary, "u1", Args{
		Expenses: 312.40, TransactionCount: 17,
	}, at)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, n.Status)
	require.NotNil(t, n.ScheduledFor)
	assert.Equal(t, at, *n.ScheduledFor)
	assert.Equal(t, domain.PriorityLow, n.Priority)
	assert.Contains(t, n.Message, "17 transactions")
}
