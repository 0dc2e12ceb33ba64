package driven

import (
	"context"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// ScoreStore persists score snapshots. Snapshots are append-only; the most
// recent one per product is authoritative.
type ScoreStore interface {
	// Save appends a snapshot. The snapshot's ID is set on success.
	// Nothing is written when Save fails.
	Save(ctx context.Context, snapshot *domain.ScoreSnapshot) error

	// Latest returns the most recent snapshot, or nil when none exists.
	Latest(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error)

	// History returns every snapshot of a product, newest first.
	History(ctx context.Context, productID int64) ([]domain.ScoreSnapshot, error)
}
