package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pocketledger/alerts/internal/config"
)

const resendURL = "https://api.resend.com/emails"

// Resend sends mail through the Resend REST API.
type Resend struct {
	apiKey   string
	from     string
	fromName string
	client   *http.Client
}

func NewResend(cfg config.EmailConfig) *Resend {
	return &Resend{
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		fromName: cfg.FromName,
		client:   newHTTPClient(),
	}
}

func (r *Resend) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	payload := map[string]interface{}{
		"from":    fmt.Sprintf("%s <%s>", r.fromName, r.from),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
		"text":    textBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend rejected message: status %d: %s", resp.StatusCode, b)
	}
	return nil
}
