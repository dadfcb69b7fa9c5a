package processor

import (
	"sync"
	"time"
)

// Lease is the single-flight guard for the processor. Unlike a plain
// boolean flag, it carries an acquisition timestamp and a TTL: a run that
// crashed without releasing cannot wedge the guard forever, because the
// next acquisition after the TTL steals the lease.
type Lease struct {
	mu        sync.Mutex
	held      bool
	heldSince time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewLease(ttl time.Duration) *Lease {
	return &Lease{ttl: ttl, now: time.Now}
}

// TryAcquire takes the lease if it is free or expired. Returns false when a
// live holder exists, in which case the caller must skip its run.
func (l *Lease) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held && l.now().Sub(l.heldSince) < l.ttl {
		return false
	}
	l.held = true
	l.heldSince = l.now()
	return true
}

func (l *Lease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
}

// Held reports the current holder state and when it was acquired.
func (l *Lease) Held() (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held, l.heldSince
}
