package email

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketledger/alerts/internal/config"
)

// Sender delivers one email message. Implementations must return an error
// instead of panicking; the dispatcher converts failures to a false result.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// httpTimeout bounds every provider call so a hung provider cannot stall
// the dispatch batch.
const httpTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// New selects the email provider from configuration. Unknown providers and
// missing credentials fall back to the console sender rather than failing.
func New(cfg config.EmailConfig) Sender {
	switch cfg.Provider {
	case "sendgrid":
		if cfg.APIKey == "" {
			slog.Warn("sendgrid selected but EMAIL_API_KEY is empty, falling back to console")
			return NewConsole()
		}
		return NewSendgrid(cfg)
	case "resend":
		if cfg.APIKey == "" {
			slog.Warn("resend selected but EMAIL_API_KEY is empty, falling back to console")
			return NewConsole()
		}
		return NewResend(cfg)
	case "smtp":
		return NewSMTP(cfg)
	case "console":
		return NewConsole()
	default:
		slog.Warn("unknown email provider, falling back to console", "provider", cfg.Provider)
		return NewConsole()
	}
}
