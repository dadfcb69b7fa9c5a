package pattern

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pocketledger/alerts/internal/domain"
)

// maxUpdateAttempts bounds the re-read/retry loop when a concurrent writer
// races the versioned update for the same (user, category) key.
const maxUpdateAttempts = 3

// Store is the persistence contract for spending patterns.
type Store interface {
	Get(ctx context.Context, userID, categoryID string) (*domain.SpendingPattern, error)
	Create(ctx context.Context, p *domain.SpendingPattern) error
	UpdateVersioned(ctx context.Context, p *domain.SpendingPattern) error
	Delete(ctx context.Context, userID, categoryID string) error
}

// Service maintains the per-(user, category) online spending model.
type Service interface {
	Update(ctx context.Context, userID, categoryID string, amount float64) (*domain.SpendingPattern, error)
	Get(ctx context.Context, userID, categoryID string) (*domain.SpendingPattern, error)
	Reset(ctx context.Context, userID, categoryID string) error
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{store: store, now: time.Now}
}

// Update folds one new amount into the pattern with a single-pass
// (Welford-style) mean/variance update, so the transaction history is never
// re-read. Writes are serialized per key through an optimistic version
// check; a lost race re-reads and recomputes. A storage failure aborts the
// update with ErrDataAccess and leaves the stored pattern unchanged.
func (s *service) Update(ctx context.Context, userID, categoryID string, amount float64) (*domain.SpendingPattern, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		p, err := s.store.Get(ctx, userID, categoryID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			fresh := &domain.SpendingPattern{
				UserID:            userID,
				CategoryID:        categoryID,
				AverageAmount:     amount,
				StandardDeviation: 0,
				TransactionCount:  1,
				Version:           1,
				LastUpdated:       s.now().UTC(),
			}
			if err := s.store.Create(ctx, fresh); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					lastErr = err
					continue // another writer created it first; fold into theirs
				}
				return nil, fmt.Errorf("create pattern %s/%s: %s: %w", userID, categoryID, err, domain.ErrDataAccess)
			}
			return fresh, nil
		case err != nil:
			return nil, fmt.Errorf("read pattern %s/%s: %s: %w", userID, categoryID, err, domain.ErrDataAccess)
		}

		next := fold(p, amount, s.now().UTC())
		if err := s.store.UpdateVersioned(ctx, next); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("persist pattern %s/%s: %s: %w", userID, categoryID, err, domain.ErrDataAccess)
		}
		next.Version++
		return next, nil
	}
	return nil, fmt.Errorf("update pattern %s/%s: retries exhausted: %s: %w", userID, categoryID, lastErr, domain.ErrDataAccess)
}

func (s *service) Get(ctx context.Context, userID, categoryID string) (*domain.SpendingPattern, error) {
	return s.store.Get(ctx, userID, categoryID)
}

// Reset deletes the stored model for one key. The next transaction starts a
// fresh pattern.
func (s *service) Reset(ctx context.Context, userID, categoryID string) error {
	if err := s.store.Delete(ctx, userID, categoryID); err != nil {
		return fmt.Errorf("reset pattern %s/%s: %s: %w", userID, categoryID, err, domain.ErrDataAccess)
	}
	return nil
}

// fold computes the next pattern state from the current one and a new amount.
//
//	n' = n + 1
//	mean' = (mean*n + x) / n'
//	var'  = (n*var + (x - mean)*(x - mean')) / n'
//
// The max(0, var') clamp guards against tiny negative variances produced by
// floating-point cancellation.
func fold(p *domain.SpendingPattern, amount float64, now time.Time) *domain.SpendingPattern {
	n := float64(p.TransactionCount)
	n1 := n + 1

	mean := p.AverageAmount
	variance := p.StandardDeviation * p.StandardDeviation

	mean1 := (mean*n + amount) / n1
	variance1 := (n*variance + (amount-mean)*(amount-mean1)) / n1

	return &domain.SpendingPattern{
		UserID:            p.UserID,
		CategoryID:        p.CategoryID,
		AverageAmount:     mean1,
		StandardDeviation: math.Sqrt(math.Max(0, variance1)),
		TransactionCount:  p.TransactionCount + 1,
		Version:           p.Version,
		LastUpdated:       now,
	}
}
