package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/infrastructure/email"
	"github.com/pocketledger/alerts/internal/infrastructure/push"
	"github.com/pocketledger/alerts/internal/infrastructure/sms"
	"github.com/pocketledger/alerts/internal/metrics"
)

// Directory resolves a user's contact details. Profile management is an
// external collaborator; the dispatcher only reads.
type Directory interface {
	Lookup(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// Subscriptions resolves a user's stored Web Push subscription.
type Subscriptions interface {
	Get(ctx context.Context, userID string) (*domain.PushSubscription, error)
}

// Store is the slice of the notification store the dispatcher needs to
// record delivery outcomes.
type Store interface {
	MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, notificationID string) error
}

// Service sends composed notifications through concrete channels. Provider
// and lookup failures never propagate past this boundary: every path
// resolves to a boolean outcome.
type Service interface {
	// Send attempts delivery on exactly one channel.
	Send(ctx context.Context, n *domain.Notification, ch domain.Channel) bool

	// Deliver attempts every requested channel and records the outcome on
	// the notification: sent if any channel succeeded, failed otherwise.
	Deliver(ctx context.Context, n *domain.Notification) bool
}

type service struct {
	email     email.Sender
	sms       sms.Sender
	push      push.Sender
	directory Directory
	subs      Subscriptions
	store     Store
	now       func() time.Time
}

type Deps struct {
	Email         email.Sender
	SMS           sms.Sender
	Push          push.Sender
	Directory     Directory
	Subscriptions Subscriptions
	Store         Store
}

func NewService(deps Deps) Service {
	return &service{
		email:     deps.Email,
		sms:       deps.SMS,
		push:      deps.Push,
		directory: deps.Directory,
		subs:      deps.Subscriptions,
		store:     deps.Store,
		now:       time.Now,
	}
}

func (s *service) Send(ctx context.Context, n *domain.Notification, ch domain.Channel) bool {
	ok := s.send(ctx, n, ch)
	metrics.RecordDispatch(string(ch), ok)
	return ok
}

func (s *service) send(ctx context.Context, n *domain.Notification, ch domain.Channel) bool {
	switch ch {
	case domain.ChannelEmail:
		return s.sendEmail(ctx, n)
	case domain.ChannelSMS:
		return s.sendSMS(ctx, n)
	case domain.ChannelPush:
		return s.sendPush(ctx, n)
	case domain.ChannelInApp:
		// The stored record is the delivery artifact.
		return true
	default:
		slog.WarnContext(ctx, "unknown channel requested", "channel", ch, "notification_id", n.NotificationID)
		return false
	}
}

func (s *service) sendEmail(ctx context.Context, n *domain.Notification) bool {
	profile, err := s.directory.Lookup(ctx, n.UserID)
	if err != nil || profile.Email == "" {
		s.logFailure(ctx, n, domain.ChannelEmail, "no email address on profile", err)
		return false
	}
	html := fmt.Sprintf("<h2>%s</h2><p>%s</p>", n.Title, n.Message)
	if err := s.email.Send(ctx, profile.Email, n.Title, html, n.Message); err != nil {
		s.logFailure(ctx, n, domain.ChannelEmail, "provider rejected email", err)
		return false
	}
	return true
}

func (s *service) sendSMS(ctx context.Context, n *domain.Notification) bool {
	profile, err := s.directory.Lookup(ctx, n.UserID)
	if err != nil || profile.PhoneNumber == "" || !profile.PhoneVerified {
		s.logFailure(ctx, n, domain.ChannelSMS, "no verified phone number on profile", err)
		return false
	}
	body := fmt.Sprintf("%s: %s", n.Title, n.Message)
	if err := s.sms.Send(ctx, profile.PhoneNumber, body); err != nil {
		s.logFailure(ctx, n, domain.ChannelSMS, "provider rejected sms", err)
		return false
	}
	return true
}

func (s *service) sendPush(ctx context.Context, n *domain.Notification) bool {
	sub, err := s.subs.Get(ctx, n.UserID)
	if err != nil {
		s.logFailure(ctx, n, domain.ChannelPush, "no stored push subscription", err)
		return false
	}
	if err := s.push.Send(ctx, sub, n.Title, n.Message); err != nil {
		s.logFailure(ctx, n, domain.ChannelPush, "provider rejected push", err)
		return false
	}
	return true
}

func (s *service) Deliver(ctx context.Context, n *domain.Notification) bool {
	anySent := false
	for _, ch := range n.Channels {
		if s.Send(ctx, n, ch) {
			anySent = true
		}
	}

	if anySent {
		sentAt := s.now().UTC()
		if err := s.store.MarkSent(ctx, n.NotificationID, sentAt); err != nil {
			slog.ErrorContext(ctx, "could not record sent status", "notification_id", n.NotificationID, "err", err)
		}
		n.Status = domain.StatusSent
		n.SentAt = &sentAt
	} else {
		if err := s.store.MarkFailed(ctx, n.NotificationID); err != nil {
			slog.ErrorContext(ctx, "could not record failed status", "notification_id", n.NotificationID, "err", err)
		}
		n.Status = domain.StatusFailed
		n.RetryCount++
	}
	return anySent
}

func (s *service) logFailure(ctx context.Context, n *domain.Notification, ch domain.Channel, reason string, err error) {
	slog.WarnContext(ctx, "channel dispatch failed",
		"notification_id", n.NotificationID,
		"user_id", n.UserID,
		"channel", ch,
		"reason", reason,
		"err", err)
}
