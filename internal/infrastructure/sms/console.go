package sms

import (
	"context"
	"log/slog"
)

// Console is the no-op fallback sender: it logs the message instead of
// delivering it.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (c *Console) Send(_ context.Context, to, body string) error {
	slog.Info("console sms", "to", to, "body", body)
	return nil
}
