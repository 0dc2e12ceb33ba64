package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
	"github.com/custodia-labs/covrank/internal/core/scoring"
	"github.com/custodia-labs/covrank/internal/logger"
)

// Ensure ScoreService implements the interface.
var _ driving.ScoreService = (*ScoreService)(nil)

// ScoreService computes product scores and appends snapshots.
type ScoreService struct {
	products driven.ProductStore
	scores   driven.ScoreStore
	locks    *ProductLocks
	now      func() time.Time
}

// NewScoreService creates a new score service. Locks are shared with the
// services that delete products.
func NewScoreService(products driven.ProductStore, scores driven.ScoreStore, locks *ProductLocks) *ScoreService {
	if locks == nil {
		locks = NewProductLocks()
	}
	return &ScoreService{
		products: products,
		scores:   scores,
		locks:    locks,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ComputeScore scores a product and appends a snapshot.
func (s *ScoreService) ComputeScore(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	return s.compute(ctx, productID)
}

// GetScore returns the most recent snapshot, or nil when none exists.
func (s *ScoreService) GetScore(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error) {
	return s.scores.Latest(ctx, productID)
}

// Ensure returns the most recent snapshot, computing one when none exists.
func (s *ScoreService) Ensure(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	snap, err := s.scores.Latest(ctx, productID)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return snap, nil
	}
	return s.compute(ctx, productID)
}

// History returns every snapshot of a product, newest first.
func (s *ScoreService) History(ctx context.Context, productID int64) ([]domain.ScoreSnapshot, error) {
	return s.scores.History(ctx, productID)
}

// compute must be called with the product lock held.
func (s *ScoreService) compute(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error) {
	details, err := loadDetails(ctx, s.products, productID)
	if err != nil {
		return nil, fmt.Errorf("compute score for product %d: %w", productID, err)
	}

	b := scoring.Calculate(scoring.InputFor(details))
	snap := &domain.ScoreSnapshot{
		ProductID:             productID,
		CoverageScore:         b.Coverage,
		PremiumScore:          b.Premium,
		SpecialConditionScore: b.SpecialCondition,
		TotalScore:            b.Total,
		CalculatedAt:          s.now(),
	}

	if err := s.scores.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("%w: save score for product %d: %w", domain.ErrStorage, productID, err)
	}

	logger.Debug("Scored product %d: coverage=%.2f premium=%.2f conditions=%.2f total=%.2f",
		productID, snap.CoverageScore, snap.PremiumScore, snap.SpecialConditionScore, snap.TotalScore)

	return snap, nil
}
