package push

import (
	"context"
	"encoding/json"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pocketledger/alerts/internal/config"
	"github.com/pocketledger/alerts/internal/domain"
)

// WebPush sends Web Push messages signed with the application's VAPID keys.
type WebPush struct {
	publicKey  string
	privateKey string
	subject    string
}

func NewWebPush(cfg config.PushConfig) *WebPush {
	return &WebPush{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subject:    cfg.VAPIDSubject,
	}
}

func (w *WebPush) Send(ctx context.Context, sub *domain.PushSubscription, title, body string) error {
	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      w.subject,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             3600,
	})
	if err != nil {
		return fmt.Errorf("web-push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push service rejected message: status %d", resp.StatusCode)
	}
	return nil
}
