package push

import (
	"context"
	"log/slog"

	"github.com/pocketledger/alerts/internal/domain"
)

// Console is the no-op fallback sender: it logs the message instead of
// delivering it.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (c *Console) Send(_ context.Context, sub *domain.PushSubscription, title, body string) error {
	slog.Info("console push", "user_id", sub.UserID, "title", title, "body", body)
	return nil
}
