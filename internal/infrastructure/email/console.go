package email

import (
	"context"
	"log/slog"
)

// Console is the no-op fallback sender: it logs the message instead of
// delivering it. Used in development and whenever credentials are missing.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (c *Console) Send(_ context.Context, to, subject, _, textBody string) error {
	slog.Info("console email", "to", to, "subject", subject, "body", textBody)
	return nil
}
