package sms

import (
	"context"
	"log/slog"

	"github.com/pocketledger/alerts/internal/config"
)

// Sender delivers one SMS message to a phone number in E.164 form.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// New selects the SMS provider from configuration. Unknown providers and
// missing credentials fall back to the console sender rather than failing.
func New(cfg config.SMSConfig) Sender {
	switch cfg.Provider {
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
			slog.Warn("twilio selected but credentials are empty, falling back to console")
			return NewConsole()
		}
		return NewTwilio(cfg)
	case "sns":
		sender, err := NewSNS(cfg)
		if err != nil {
			slog.Warn("sns sender unavailable, falling back to console", "err", err)
			return NewConsole()
		}
		return sender
	case "console":
		return NewConsole()
	default:
		slog.Warn("unknown sms provider, falling back to console", "provider", cfg.Provider)
		return NewConsole()
	}
}
