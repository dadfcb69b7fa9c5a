package composer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/pkg/id"
)

// dateLayout is how due dates and period labels appear in messages.
const dateLayout = "Jan 2, 2006"

// Store is the persistence contract for composed notifications.
type Store interface {
	Put(ctx context.Context, n *domain.Notification) error
}

// Args carries the interpolation values for a notification. Each kind reads
// only the fields it needs.
type Args struct {
	AccountName  string
	CategoryName string
	BillName     string
	CardName     string
	LoanName     string
	GoalName     string
	Subscription string
	PeriodLabel  string

	Amount       float64
	Threshold    float64
	BudgetLimit  float64
	DeviationPct float64
	ProgressPct  float64
	Income       float64
	Expenses     float64

	TransactionCount int
	DueDate          time.Time

	// Channels overrides the in-app default when set.
	Channels []domain.Channel
}

// Service builds and persists notification records for every event kind.
type Service interface {
	Compose(ctx context.Context, kind domain.NotificationType, userID string, args Args) (*domain.Notification, error)
	ComposeUnusualSpending(ctx context.Context, userID, categoryName string, amount, deviationPct float64) (*domain.Notification, error)
	ComposeBillReminder(ctx context.Context, userID, billName string, amount float64, dueDate time.Time, daysUntilDue int) (*domain.Notification, error)
	Schedule(ctx context.Context, kind domain.NotificationType, userID string, args Args, at time.Time) (*domain.Notification, error)
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{store: store, now: time.Now}
}

// template fixes the title and priority of one notification kind.
type template struct {
	title    string
	priority domain.Priority
}

var templates = map[domain.NotificationType]template{
	domain.TypeLowBalanceWarning:       {"Low Balance Warning", domain.PriorityHigh},
	domain.TypeUnusualSpendingDetected: {"Unusual Spending Detected", domain.PriorityHigh},
	domain.TypeBillReminderToday:       {"Bill Due Today", domain.PriorityUrgent},
	domain.TypeBillReminder1Day:        {"Bill Due Tomorrow", domain.PriorityHigh},
	domain.TypeBillReminder3Days:       {"Bill Due Soon", domain.PriorityNormal},
	domain.TypeCreditCardPaymentDue:    {"Credit Card Payment Due", domain.PriorityHigh},
	domain.TypeLoanEMIReminder:         {"Loan EMI Reminder", domain.PriorityHigh},
	domain.TypeBudgetExceeded:          {"Budget Exceeded", domain.PriorityHigh},
	domain.TypeGoalMilestone:           {"Goal Milestone Reached", domain.PriorityNormal},
	domain.TypeSubscriptionRenewal:     {"Subscription Renewal", domain.PriorityNormal},
	domain.TypeWeeklySummary:           {"Your Weekly Summary", domain.PriorityLow},
	domain.TypeMonthlyReport:           {"Your Monthly Report", domain.PriorityLow},
}

func (s *service) Compose(ctx context.Context, kind domain.NotificationType, userID string, args Args) (*domain.Notification, error) {
	n, err := s.build(kind, userID, args)
	if err != nil {
		return nil, err
	}
	n.Status = domain.StatusPending
	if err := s.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}
	return n, nil
}

// Schedule persists the notification with status=scheduled so the periodic
// processor picks it up once it becomes due.
func (s *service) Schedule(ctx context.Context, kind domain.NotificationType, userID string, args Args, at time.Time) (*domain.Notification, error) {
	n, err := s.build(kind, userID, args)
	if err != nil {
		return nil, err
	}
	n.Status = domain.StatusScheduled
	scheduled := at.UTC()
	n.ScheduledFor = &scheduled
	if err := s.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("persist scheduled notification: %w", err)
	}
	return n, nil
}

func (s *service) ComposeUnusualSpending(ctx context.Context, userID, categoryName string, amount, deviationPct float64) (*domain.Notification, error) {
	return s.Compose(ctx, domain.TypeUnusualSpendingDetected, userID, Args{
		CategoryName: categoryName,
		Amount:       amount,
		DeviationPct: deviationPct,
	})
}

// ComposeBillReminder maps days-until-due onto a reminder kind. Only 0, 1
// and 3 days have a defined reminder; any other value composes nothing.
func (s *service) ComposeBillReminder(ctx context.Context, userID, billName string, amount float64, dueDate time.Time, daysUntilDue int) (*domain.Notification, error) {
	var kind domain.NotificationType
	switch daysUntilDue {
	case 0:
		kind = domain.TypeBillReminderToday
	case 1:
		kind = domain.TypeBillReminder1Day
	case 3:
		kind = domain.TypeBillReminder3Days
	default:
		return nil, nil
	}
	return s.Compose(ctx, kind, userID, Args{
		BillName: billName,
		Amount:   amount,
		DueDate:  dueDate,
	})
}

func (s *service) build(kind domain.NotificationType, userID string, args Args) (*domain.Notification, error) {
	tpl, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown notification kind %q: %w", kind, domain.ErrBadRequest)
	}

	channels := args.Channels
	if len(channels) == 0 {
		channels = []domain.Channel{domain.ChannelInApp}
	}

	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Type:           kind,
		Title:          tpl.title,
		Message:        message(kind, args),
		Priority:       tpl.priority,
		Channels:       channels,
		RetryCount:     0,
		Metadata:       metadata(kind, args),
		CreatedAt:      s.now().UTC(),
	}
	return n, nil
}

func message(kind domain.NotificationType, a Args) string {
	switch kind {
	case domain.TypeLowBalanceWarning:
		return fmt.Sprintf("Your %s balance has dropped to $%.2f, below your $%.2f alert threshold.", a.AccountName, a.Amount, a.Threshold)
	case domain.TypeUnusualSpendingDetected:
		return fmt.Sprintf("You spent $%.2f on %s, %.1f%% away from your usual spending in this category.", a.Amount, a.CategoryName, a.DeviationPct)
	case domain.TypeBillReminderToday:
		return fmt.Sprintf("%s ($%.2f) is due today.", a.BillName, a.Amount)
	case domain.TypeBillReminder1Day:
		return fmt.Sprintf("%s ($%.2f) is due tomorrow.", a.BillName, a.Amount)
	case domain.TypeBillReminder3Days:
		return fmt.Sprintf("%s ($%.2f) is due on %s.", a.BillName, a.Amount, a.DueDate.Format(dateLayout))
	case domain.TypeCreditCardPaymentDue:
		return fmt.Sprintf("A payment of $%.2f on %s is due on %s.", a.Amount, a.CardName, a.DueDate.Format(dateLayout))
	case domain.TypeLoanEMIReminder:
		return fmt.Sprintf("Your EMI of $%.2f for %s is due on %s.", a.Amount, a.LoanName, a.DueDate.Format(dateLayout))
	case domain.TypeBudgetExceeded:
		return fmt.Sprintf("You've spent $%.2f of your $%.2f %s budget.", a.Amount, a.BudgetLimit, a.CategoryName)
	case domain.TypeGoalMilestone:
		return fmt.Sprintf("You've reached %.0f%% of your goal \"%s\".", a.ProgressPct, a.GoalName)
	case domain.TypeSubscriptionRenewal:
		return fmt.Sprintf("%s renews on %s for $%.2f.", a.Subscription, a.DueDate.Format(dateLayout), a.Amount)
	case domain.TypeWeeklySummary:
		return fmt.Sprintf("You spent $%.2f across %d transactions this week.", a.Expenses, a.TransactionCount)
	case domain.TypeMonthlyReport:
		return fmt.Sprintf("In %s you earned $%.2f and spent $%.2f.", a.PeriodLabel, a.Income, a.Expenses)
	default:
		return ""
	}
}

// metadata keeps the raw interpolation values on the record so downstream
// consumers don't have to parse them back out of the message text.
func metadata(kind domain.NotificationType, a Args) map[string]string {
	m := map[string]string{}
	if a.Amount != 0 {
		m["amount"] = strconv.FormatFloat(a.Amount, 'f', 2, 64)
	}
	if a.CategoryName != "" {
		m["category"] = a.CategoryName
	}
	if kind == domain.TypeUnusualSpendingDetected {
		m["deviation_pct"] = strconv.FormatFloat(a.DeviationPct, 'f', 1, 64)
	}
	if !a.DueDate.IsZero() {
		m["due_date"] = a.DueDate.Format(dateLayout)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
