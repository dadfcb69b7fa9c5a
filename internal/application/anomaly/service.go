package anomaly

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/pocketledger/alerts/internal/application/pattern"
	"github.com/pocketledger/alerts/internal/domain"
	"github.com/pocketledger/alerts/internal/metrics"
)

// deviationMultiplier is the 2-sigma threshold: an amount is unusual when it
// deviates from the category mean by more than twice the standard deviation.
const deviationMultiplier = 2.0

// Request carries one transaction into the detector.
type Request struct {
	UserID       string
	CategoryID   string
	CategoryName string
	Amount       float64
}

// Result is the detector's verdict. Pattern reflects the model after this
// transaction has been folded in.
type Result struct {
	Unusual      bool                    `json:"is_unusual"`
	DeviationPct float64                 `json:"deviation_percentage"`
	Pattern      *domain.SpendingPattern `json:"pattern,omitempty"`
}

// Composer is the slice of the notification composer the detector needs.
type Composer interface {
	ComposeUnusualSpending(ctx context.Context, userID, categoryName string, amount, deviationPct float64) (*domain.Notification, error)
}

// Service decides whether a transaction is unusual for its category.
type Service interface {
	Analyze(ctx context.Context, req Request) Result
}

type service struct {
	patterns pattern.Service
	composer Composer
}

func NewService(patterns pattern.Service, composer Composer) Service {
	return &service{patterns: patterns, composer: composer}
}

// Analyze evaluates the amount against the stored pattern, then folds the
// amount into the model whether or not it was flagged, and finally raises an
// unusual-spending notification for flagged transactions.
//
// Detection is best-effort: it must never block transaction recording, so
// every internal failure degrades to the zero Result. The underlying error
// is logged and counted instead of propagated.
func (s *service) Analyze(ctx context.Context, req Request) Result {
	p, err := s.patterns.Get(ctx, req.UserID, req.CategoryID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return s.degrade(ctx, req, "read pattern", err)
	}

	var res Result
	if p != nil {
		diff := math.Abs(req.Amount - p.AverageAmount)
		res.Unusual = diff > deviationMultiplier*p.StandardDeviation
		// A zero-mean pattern carries no usable spending history: report 0%
		// deviation and do not flag, instead of dividing by zero.
		if p.AverageAmount > 0 {
			res.DeviationPct = diff / p.AverageAmount * 100
		} else {
			res.Unusual = false
		}
	}

	updated, err := s.patterns.Update(ctx, req.UserID, req.CategoryID, req.Amount)
	if err != nil {
		return s.degrade(ctx, req, "update pattern", err)
	}
	res.Pattern = updated

	if res.Unusual {
		if _, err := s.composer.ComposeUnusualSpending(ctx, req.UserID, req.CategoryName, req.Amount, res.DeviationPct); err != nil {
			return s.degrade(ctx, req, "compose alert", err)
		}
		metrics.RecordAnomalyCheck("unusual")
	} else {
		metrics.RecordAnomalyCheck("normal")
	}
	return res
}

func (s *service) degrade(ctx context.Context, req Request, step string, err error) Result {
	slog.ErrorContext(ctx, "anomaly detection degraded",
		"step", step,
		"user_id", req.UserID,
		"category_id", req.CategoryID,
		"err", err)
	metrics.RecordAnomalyCheck("error")
	return Result{}
}
