package driving

import (
	"context"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// ScoreService computes and reads product scores.
type ScoreService interface {
	// ComputeScore scores a product and appends a snapshot.
	// Returns domain.ErrNotFound for an unknown product and wraps
	// domain.ErrStorage when the snapshot cannot be saved.
	ComputeScore(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error)

	// GetScore returns the most recent snapshot, or nil when none exists.
	GetScore(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error)

	// Ensure returns the most recent snapshot, computing one when none exists.
	Ensure(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error)

	// History returns every snapshot of a product, newest first.
	History(ctx context.Context, productID int64) ([]domain.ScoreSnapshot, error)
}

// RankingService orders products by their latest total score.
type RankingService interface {
	// Ranking returns scored products first, best score first, then unscored
	// products, newest first. Missing scores are computed on the way.
	Ranking(ctx context.Context, opts domain.RankingOptions) (*domain.Ranking, error)
}

// DuplicateService removes products sharing company and title.
type DuplicateService interface {
	// RemoveDuplicates keeps the newest product of every group and deletes the rest.
	RemoveDuplicates(ctx context.Context) (*domain.DedupReport, error)
}
