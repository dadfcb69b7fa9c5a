package domain

import "time"

// NotificationPreferences holds one user's delivery settings: a toggle per
// notification kind, a toggle per channel, and an optional quiet-hour window
// ("HH:MM" bounds, may span midnight). In-app delivery is always on and has
// no toggle.
type NotificationPreferences struct {
	UserID string `json:"user_id" dynamodbav:"user_id"`

	LowBalanceAlerts      bool `json:"low_balance_alerts" dynamodbav:"low_balance_alerts"`
	UnusualSpendingAlerts bool `json:"unusual_spending_alerts" dynamodbav:"unusual_spending_alerts"`
	BillReminders         bool `json:"bill_reminders" dynamodbav:"bill_reminders"`
	CreditCardAlerts      bool `json:"credit_card_alerts" dynamodbav:"credit_card_alerts"`
	LoanEMIAlerts         bool `json:"loan_emi_alerts" dynamodbav:"loan_emi_alerts"`
	BudgetAlerts          bool `json:"budget_alerts" dynamodbav:"budget_alerts"`
	GoalAlerts            bool `json:"goal_alerts" dynamodbav:"goal_alerts"`
	SubscriptionAlerts    bool `json:"subscription_alerts" dynamodbav:"subscription_alerts"`
	WeeklySummary         bool `json:"weekly_summary" dynamodbav:"weekly_summary"`

	EmailNotifications bool   `json:"email_notifications" dynamodbav:"email_notifications"`
	SMSNotifications   bool   `json:"sms_notifications" dynamodbav:"sms_notifications"`
	PushNotifications  bool   `json:"push_notifications" dynamodbav:"push_notifications"`
	SMSPhoneNumber     string `json:"sms_phone_number,omitempty" dynamodbav:"sms_phone_number"`

	QuietHoursStart string `json:"quiet_hours_start,omitempty" dynamodbav:"quiet_hours_start"`
	QuietHoursEnd   string `json:"quiet_hours_end,omitempty" dynamodbav:"quiet_hours_end"`

	// NotificationSchedule is stored and returned as-is for the preferences
	// UI; the pipeline does not interpret it.
	NotificationSchedule string `json:"notification_schedule,omitempty" dynamodbav:"notification_schedule"`

	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// DefaultPreferences returns the record created on a user's first access:
// every kind enabled, email and push on, SMS off until a number is provided.
func DefaultPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:                userID,
		LowBalanceAlerts:      true,
		UnusualSpendingAlerts: true,
		BillReminders:         true,
		CreditCardAlerts:      true,
		LoanEMIAlerts:         true,
		BudgetAlerts:          true,
		GoalAlerts:            true,
		SubscriptionAlerts:    true,
		WeeklySummary:         true,
		EmailNotifications:    true,
		PushNotifications:     true,
		UpdatedAt:             time.Now().UTC(),
	}
}
