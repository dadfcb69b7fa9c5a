package push

import (
	"context"
	"log/slog"

	"github.com/pocketledger/alerts/internal/config"
	"github.com/pocketledger/alerts/internal/domain"
)

// Sender delivers one push message to a stored subscription.
type Sender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, title, body string) error
}

// New selects the push provider from configuration. Unknown providers and
// missing VAPID keys fall back to the console sender rather than failing.
func New(cfg config.PushConfig) Sender {
	switch cfg.Provider {
	case "web-push":
		if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
			slog.Warn("web-push selected but VAPID keys are empty, falling back to console")
			return NewConsole()
		}
		return NewWebPush(cfg)
	case "console":
		return NewConsole()
	default:
		slog.Warn("unknown push provider, falling back to console", "provider", cfg.Provider)
		return NewConsole()
	}
}
