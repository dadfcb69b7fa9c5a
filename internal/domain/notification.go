package domain

import "time"

// NotificationType enumerates every event kind the composer knows how to build.
type NotificationType string

const (
	TypeLowBalanceWarning       NotificationType = "low_balance_warning"
	TypeUnusualSpendingDetected NotificationType = "unusual_spending_detected"
	TypeBillReminderToday       NotificationType = "bill_reminder_today"
	TypeBillReminder1Day        NotificationType = "bill_reminder_1_day"
	TypeBillReminder3Days       NotificationType = "bill_reminder_3_days"
	TypeCreditCardPaymentDue    NotificationType = "credit_card_payment_due"
	TypeLoanEMIReminder         NotificationType = "loan_emi_reminder"
	TypeBudgetExceeded          NotificationType = "budget_exceeded"
	TypeGoalMilestone           NotificationType = "goal_milestone"
	TypeSubscriptionRenewal     NotificationType = "subscription_renewal"
	TypeWeeklySummary           NotificationType = "weekly_summary"
	TypeMonthlyReport           NotificationType = "monthly_report"
)

// Priority orders notifications for display; it does not affect gating.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Channel identifies a delivery transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

// Status tracks a notification through its delivery lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Notification is a composed message awaiting or past delivery.
// Only the dispatcher and the scheduled processor mutate Status, SentAt
// and RetryCount; everything else is write-once at composition.
type Notification struct {
	NotificationID string            `json:"id" dynamodbav:"notification_id"`
	UserID         string            `json:"user_id" dynamodbav:"user_id"`
	Type           NotificationType  `json:"type" dynamodbav:"type"`
	Title          string            `json:"title" dynamodbav:"title"`
	Message        string            `json:"message" dynamodbav:"message"`
	Priority       Priority          `json:"priority" dynamodbav:"priority"`
	Channels       []Channel         `json:"channels" dynamodbav:"channels"`
	Status         Status            `json:"status" dynamodbav:"status"`
	RetryCount     int               `json:"retry_count" dynamodbav:"retry_count"`
	ScheduledFor   *time.Time        `json:"scheduled_for,omitempty" dynamodbav:"scheduled_for,omitempty"`
	SentAt         *time.Time        `json:"sent_at,omitempty" dynamodbav:"sent_at,omitempty"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at" dynamodbav:"created_at"`
}

// Expired reports whether the notification's expiry has passed at now.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}
