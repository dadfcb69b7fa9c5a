package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketledger/alerts/internal/domain"
)

// Store is the persistence contract for notification preferences.
type Store interface {
	Get(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	Put(ctx context.Context, p *domain.NotificationPreferences) error
}

// Service owns preference records and the delivery gate built on them.
type Service interface {
	// GetOrCreate returns the user's preferences, creating the default
	// record on first access.
	GetOrCreate(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	Update(ctx context.Context, p *domain.NotificationPreferences) error

	// ShouldSend reports whether a notification of the given kind may be
	// delivered to the user on the given channel right now. It fails closed:
	// a missing or unreadable preferences record blocks delivery.
	ShouldSend(ctx context.Context, userID string, kind domain.NotificationType, ch domain.Channel) bool
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{store: store, now: time.Now}
}

// NewServiceWithClock is like NewService but with an injectable clock, used
// by quiet-hour tests.
func NewServiceWithClock(store Store, now func() time.Time) Service {
	return &service{store: store, now: now}
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	p, err := s.store.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("read preferences: %s: %w", err, domain.ErrDataAccess)
	}
	p = domain.DefaultPreferences(userID)
	if err := s.store.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("create default preferences: %s: %w", err, domain.ErrDataAccess)
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, p *domain.NotificationPreferences) error {
	p.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, p); err != nil {
		return fmt.Errorf("update preferences: %s: %w", err, domain.ErrDataAccess)
	}
	return nil
}

func (s *service) ShouldSend(ctx context.Context, userID string, kind domain.NotificationType, ch domain.Channel) bool {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "preference lookup failed, blocking delivery", "user_id", userID, "err", err)
		}
		return false
	}

	if !kindEnabled(p, kind) {
		return false
	}
	if !channelEnabled(p, ch) {
		return false
	}
	if s.inQuietHours(p) {
		return false
	}
	return true
}

// kindEnabled maps each notification kind to its toggle. Kinds without a
// toggle are enabled, so new kinds are delivered until a user opts out.
func kindEnabled(p *domain.NotificationPreferences, kind domain.NotificationType) bool {
	switch kind {
	case domain.TypeLowBalanceWarning:
		return p.LowBalanceAlerts
	case domain.TypeUnusualSpendingDetected:
		return p.UnusualSpendingAlerts
	case domain.TypeBillReminderToday, domain.TypeBillReminder1Day, domain.TypeBillReminder3Days:
		return p.BillReminders
	case domain.TypeCreditCardPaymentDue:
		return p.CreditCardAlerts
	case domain.TypeLoanEMIReminder:
		return p.LoanEMIAlerts
	case domain.TypeBudgetExceeded:
		return p.BudgetAlerts
	case domain.TypeGoalMilestone:
		return p.GoalAlerts
	case domain.TypeSubscriptionRenewal:
		return p.SubscriptionAlerts
	case domain.TypeWeeklySummary, domain.TypeMonthlyReport:
		return p.WeeklySummary
	default:
		return true
	}
}

func channelEnabled(p *domain.NotificationPreferences, ch domain.Channel) bool {
	switch ch {
	case domain.ChannelEmail:
		return p.EmailNotifications
	case domain.ChannelSMS:
		return p.SMSNotifications && p.SMSPhoneNumber != ""
	case domain.ChannelPush:
		return p.PushNotifications
	case domain.ChannelInApp:
		return true
	default:
		return false
	}
}

// inQuietHours checks the configured window against the current wall clock,
// in minutes since midnight. A window with start >= end spans midnight.
// Quiet hours suppress every kind and channel, urgent included.
func (s *service) inQuietHours(p *domain.NotificationPreferences) bool {
	if p.QuietHoursStart == "" || p.QuietHoursEnd == "" {
		return false
	}
	start, okStart := parseMinutes(p.QuietHoursStart)
	end, okEnd := parseMinutes(p.QuietHoursEnd)
	if !okStart || !okEnd {
		slog.Warn("unparseable quiet hours, ignoring window",
			"user_id", p.UserID, "start", p.QuietHoursStart, "end", p.QuietHoursEnd)
		return false
	}

	nowT := s.now()
	now := nowT.Hour()*60 + nowT.Minute()

	if start < end {
		return now >= start && now <= end
	}
	return now >= start || now <= end
}

func parseMinutes(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
