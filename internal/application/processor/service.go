package processor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/metrics"
)

// Store is the slice of the notification store the processor needs.
type Store interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.Notification, error)
	MarkSent(ctx context.Context, notificationID string, sentAt time.Time) error
	SetStatus(ctx context.Context, notificationID string, status domain.Status) error
}

// Gate decides per (user, kind, channel) whether delivery is permitted.
type Gate interface {
	ShouldSend(ctx context.Context, userID string, kind domain.NotificationType, ch domain.Channel) bool
}

// Sender delivers one notification on one channel.
type Sender interface {
	Send(ctx context.Context, n *domain.Notification, ch domain.Channel) bool
}

// Stats counts the outcomes of one processor run.
type Stats struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// Status is a snapshot of the processor for the observability surface.
type Status struct {
	Running   bool       `json:"running"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastStats Stats      `json:"last_stats"`
}

// Processor is the periodic job that drains due scheduled notifications.
// Ticks never overlap: a tick arriving while a run holds the lease is
// skipped outright, not queued. Within a run, notifications and channels
// are handled sequentially so one slow provider bounds the blast radius of
// a failure to a single delivery.
type Processor struct {
	store      Store
	gate       Gate
	dispatcher Sender
	lease      *Lease
	interval   time.Duration
	now        func() time.Time

	mu        sync.Mutex
	lastRunAt *time.Time
	lastStats Stats
}

func New(store Store, gate Gate, dispatcher Sender, interval, leaseTTL time.Duration) *Processor {
	return &Processor{
		store:      store,
		gate:       gate,
		dispatcher: dispatcher,
		lease:      NewLease(leaseTTL),
		interval:   interval,
		now:        time.Now,
	}
}

// Start runs the tick loop until ctx is cancelled. An in-flight run is
// allowed to finish; cancellation only stops the timer.
func (p *Processor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "scheduled processor started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduled processor stopped")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single tick. When the single-flight lease is held by a
// live prior run, the tick is a no-op and returns zero Stats.
func (p *Processor) RunOnce(ctx context.Context) Stats {
	if !p.lease.TryAcquire() {
		metrics.RecordProcessorRun("skipped")
		return Stats{}
	}
	defer p.lease.Release()
	metrics.RecordProcessorRun("run")

	now := p.now().UTC()
	stats := p.process(ctx, now)

	p.mu.Lock()
	p.lastRunAt = &now
	p.lastStats = stats
	p.mu.Unlock()

	if stats.Processed > 0 {
		slog.InfoContext(ctx, "processed scheduled notifications",
			"processed", stats.Processed,
			"sent", stats.Sent,
			"failed", stats.Failed,
			"cancelled", stats.Cancelled)
	}
	return stats
}

func (p *Processor) process(ctx context.Context, now time.Time) Stats {
	var stats Stats

	due, err := p.store.ListDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "could not list due notifications", "err", err)
		return stats
	}

	for i := range due {
		n := &due[i]
		stats.Processed++
		switch p.handle(ctx, n, now) {
		case domain.StatusSent:
			stats.Sent++
			metrics.RecordProcessedNotification("sent")
		case domain.StatusCancelled:
			stats.Cancelled++
			metrics.RecordProcessedNotification("cancelled")
		default:
			stats.Failed++
			metrics.RecordProcessedNotification("failed")
		}
	}
	return stats
}

// handle drives one notification to a terminal status. Failures are
// isolated here: whatever happens with this record, the batch continues.
func (p *Processor) handle(ctx context.Context, n *domain.Notification, now time.Time) domain.Status {
	if n.Expired(now) {
		if err := p.store.SetStatus(ctx, n.NotificationID, domain.StatusCancelled); err != nil {
			return p.fail(ctx, n, "cancel expired notification", err)
		}
		return domain.StatusCancelled
	}

	var enabled []domain.Channel
	for _, ch := range n.Channels {
		if p.gate.ShouldSend(ctx, n.UserID, n.Type, ch) {
			enabled = append(enabled, ch)
		}
	}

	// The user opted out of every requested channel.
	if len(enabled) == 0 {
		if err := p.store.SetStatus(ctx, n.NotificationID, domain.StatusCancelled); err != nil {
			return p.fail(ctx, n, "cancel opted-out notification", err)
		}
		return domain.StatusCancelled
	}

	for _, ch := range enabled {
		if ch == domain.ChannelInApp {
			// The stored record already materializes in-app delivery.
			continue
		}
		p.dispatcher.Send(ctx, n, ch)
	}

	if err := p.store.MarkSent(ctx, n.NotificationID, now); err != nil {
		return p.fail(ctx, n, "mark notification sent", err)
	}
	return domain.StatusSent
}

func (p *Processor) fail(ctx context.Context, n *domain.Notification, step string, err error) domain.Status {
	slog.ErrorContext(ctx, "scheduled notification failed",
		"notification_id", n.NotificationID, "step", step, "err", err)
	if err := p.store.SetStatus(ctx, n.NotificationID, domain.StatusFailed); err != nil {
		slog.ErrorContext(ctx, "could not record failed status", "notification_id", n.NotificationID, "err", err)
	}
	return domain.StatusFailed
}

// Status returns a snapshot for the observability endpoint.
func (p *Processor) Status() Status {
	held, _ := p.lease.Held()

	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Running:   held,
		LastRunAt: p.lastRunAt,
		LastStats: p.lastStats,
	}
}
