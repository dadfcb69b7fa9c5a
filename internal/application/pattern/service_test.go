package pattern

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/alerts/internal/domain"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Get(ctx context.Context, userID, categoryID string) (*domain.SpendingPattern, error) {
	args := m.Called(ctx, userID, categoryID)
	if p, _ := args.Get(0).(*domain.SpendingPattern); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Create(ctx context.Context, p *domain.SpendingPattern) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockStore) UpdateVersioned(ctx context.Context, p *domain.SpendingPattern) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockStore) Delete(ctx context.Context, userID, categoryID string) error {
	return m.Called(ctx, userID, categoryID).Error(0)
}

// memStore is an in-memory Store for multi-step folding tests.
type memStore struct {
	patterns map[string]*domain.SpendingPattern
}

func newMemStore() *memStore {
	return &memStore{patterns: make(map[string]*domain.SpendingPattern)}
}

func (s *memStore) key(userID, categoryID string) string { return userID + "/" + categoryID }

func (s *memStore) Get(_ context.Context, userID, categoryID string) (*domain.SpendingPattern, error) {
	p, ok := s.patterns[s.key(userID, categoryID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
func (s *memStore) Create(_ context.Context, p *domain.SpendingPattern) error {
	if _, ok := s.patterns[s.key(p.UserID, p.CategoryID)]; ok {
		return domain.ErrConflict
	}
	cp := *p
	s.patterns[s.key(p.UserID, p.CategoryID)] = &cp
	return nil
}
func (s *memStore) UpdateVersioned(_ context.Context, p *domain.SpendingPattern) error {
	cur, ok := s.patterns[s.key(p.UserID, p.CategoryID)]
	if !ok || cur.Version != p.Version {
		return domain.ErrConflict
	}
	cp := *p
	cp.Version++
	s.patterns[s.key(p.UserID, p.CategoryID)] = &cp
	return nil
}
func (s *memStore) Delete(_ context.Context, userID, categoryID string) error {
	delete(s.patterns, s.key(userID, categoryID))
	return nil
}

// --- Update tests ---

func TestUpdate_FirstTransactionCreatesPattern(t *testing.T) {
	svc := NewService(newMemStore())

	p, err := svc.Update(context.Background(), "u1", "dining", 25.50)

	require.NoError(t, err)
	assert.Equal(t, 25.50, p.AverageAmount)
	assert.Equal(t, 0.0, p.StandardDeviation)
	assert.Equal(t, int64(1), p.TransactionCount)
}

// The folded mean must match the arithmetic mean computed directly over the
// full series.
func TestUpdate_IncrementalMeanMatchesDirectMean(t *testing.T) {
	svc := NewService(newMemStore())
	amounts := []float64{20, 22, 18, 21, 19, 35.75, 12.10, 99.99, 3.33, 47}

	var p *domain.SpendingPattern
	var err error
	sum := 0.0
	for _, a := range amounts {
		p, err = svc.Update(context.Background(), "u1", "dining", a)
		require.NoError(t, err)
		sum += a
	}

	direct := sum / float64(len(amounts))
	assert.InEpsilon(t, direct, p.AverageAmount, 1e-6)
	assert.Equal(t, int64(len(amounts)), p.TransactionCount)
}

func TestUpdate_StdDevNeverNegative(t *testing.T) {
	svc := NewService(newMemStore())

	// Identical amounts drive the variance term toward zero, where
	// floating-point cancellation would otherwise produce tiny negatives.
	var p *domain.SpendingPattern
	var err error
	for i := 0; i < 50; i++ {
		p, err = svc.Update(context.Background(), "u1", "rent", 1200.00)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.StandardDeviation, 0.0)
	}
	assert.InDelta(t, 1200.00, p.AverageAmount, 1e-9)
}

func TestUpdate_StdDevMatchesPopulationFormula(t *testing.T) {
	svc := NewService(newMemStore())
	amounts := []float64{20, 22, 18, 21, 19}

	var p *domain.SpendingPattern
	var err error
	for _, a := range amounts {
		p, err = svc.Update(context.Background(), "u1", "dining", a)
		require.NoError(t, err)
	}

	mean := 20.0
	var variance float64
	for _, a := range amounts {
		variance += (a - mean) * (a - mean)
	}
	variance /= float64(len(amounts))
	assert.InEpsilon(t, math.Sqrt(variance), p.StandardDeviation, 1e-6)
}

func TestUpdate_StaleVersionRetries(t *testing.T) {
	st := &mockStore{}
	current := &domain.SpendingPattern{
		UserID: "u1", CategoryID: "dining",
		AverageAmount: 20, StandardDeviation: 1, TransactionCount: 5, Version: 3,
	}
	st.On("Get", mock.Anything, "u1", "dining").Return(current, nil)
	st.On("UpdateVersioned", mock.Anything, mock.AnythingOfType("*domain.SpendingPattern")).
		Return(domain.ErrConflict).Once()
	st.On("UpdateVersioned", mock.Anything, mock.AnythingOfType("*domain.SpendingPattern")).
		Return(nil).Once()

	svc := NewService(st)
	p, err := svc.Update(context.Background(), "u1", "dining", 30)

	require.NoError(t, err)
	assert.Equal(t, int64(6), p.TransactionCount)
	st.AssertExpectations(t)
}

func TestUpdate_RetriesExhausted(t *testing.T) {
	st := &mockStore{}
	current := &domain.SpendingPattern{
		UserID: "u1", CategoryID: "dining",
		AverageAmount: 20, TransactionCount: 5, Version: 3,
	}
	st.On("Get", mock.Anything, "u1", "dining").Return(current, nil)
	st.On("UpdateVersioned", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	svc := NewService(st)
	_, err := svc.Update(context.Background(), "u1", "dining", 30)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataAccess))
}

func TestUpdate_ReadFailureSurfacesDataAccess(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "u1", "dining").Return(nil, errors.New("throughput exceeded"))

	svc := NewService(st)
	_, err := svc.Update(context.Background(), "u1", "dining", 30)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataAccess))
}

// --- Reset tests ---

func TestReset_DeletesAndStartsFresh(t *testing.T) {
	st := newMemStore()
	svc := NewService(st)

	_, err := svc.Update(context.Background(), "u1", "dining", 20)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(context.Background(), "u1", "dining"))

	p, err := svc.Update(context.Background(), "u1", "dining", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TransactionCount)
	assert.Equal(t, 50.0, p.AverageAmount)
}
