package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pocketledger/alerts/internal/application/preference"
	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/pkg/validate"
	"github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// UpdatePreferencesRequest is the full preferences document. PUT replaces the
// record; clients send the complete set of toggles.
type UpdatePreferencesRequest struct {
	LowBalanceAlerts      bool `json:"low_balance_alerts"`
	UnusualSpendingAlerts bool `json:"unusual_spending_alerts"`
	BillReminders         bool `json:"bill_reminders"`
	CreditCardAlerts      bool `json:"credit_card_alerts"`
	LoanEMIAlerts         bool `json:"loan_emi_alerts"`
	BudgetAlerts          bool `json:"budget_alerts"`
	GoalAlerts            bool `json:"goal_alerts"`
	SubscriptionAlerts    bool `json:"subscription_alerts"`
	WeeklySummary         bool `json:"weekly_summary"`

	EmailNotifications bool   `json:"email_notifications"`
	SMSNotifications   bool   `json:"sms_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	SMSPhoneNumber     string `json:"sms_phone_number" validate:"omitempty,e164"`

	QuietHoursStart string `json:"quiet_hours_start" validate:"hhmm"`
	QuietHoursEnd   string `json:"quiet_hours_end" validate:"hhmm"`

	NotificationSchedule string `json:"notification_schedule"`
}

// PreferenceHandler serves notification preference reads and writes.
type PreferenceHandler struct {
	svc preference.Service
}

func NewPreferenceHandler(svc preference.Service) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.GetOrCreate(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p := &domain.NotificationPreferences{
		UserID:                claims.UserID,
		LowBalanceAlerts:      req.LowBalanceAlerts,
		UnusualSpendingAlerts: req.UnusualSpendingAlerts,
		BillReminders:         req.BillReminders,
		CreditCardAlerts:      req.CreditCardAlerts,
		LoanEMIAlerts:         req.LoanEMIAlerts,
		BudgetAlerts:          req.BudgetAlerts,
		GoalAlerts:            req.GoalAlerts,
		SubscriptionAlerts:    req.SubscriptionAlerts,
		WeeklySummary:         req.WeeklySummary,
		EmailNotifications:    req.EmailNotifications,
		SMSNotifications:      req.SMSNotifications,
		PushNotifications:     req.PushNotifications,
		SMSPhoneNumber:        req.SMSPhoneNumber,
		QuietHoursStart:       req.QuietHoursStart,
		QuietHoursEnd:         req.QuietHoursEnd,
		NotificationSchedule:  req.NotificationSchedule,
	}
	if err := h.svc.Update(r.Context(), p); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
