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

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

// Sendgrid sends mail through the SendGrid v3 REST API.
type Sendgrid struct {
	apiKey   string
	from     string
	fromName string
	client   *http.Client
}

func NewSendgrid(cfg config.EmailConfig) *Sendgrid {
	return &Sendgrid{
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		fromName: cfg.FromName,
		client:   newHTTPClient(),
	}
}

func (s *Sendgrid) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": s.from, "name": s.fromName},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": textBody},
			{"type": "text/html", "value": htmlBody},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, b)
	}
	return nil
}
