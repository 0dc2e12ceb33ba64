package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// ==================== Score Store ====================

// scoreStore implements driven.ScoreStore.
type scoreStore struct {
	store *Store
}

var _ driven.ScoreStore = (*scoreStore)(nil)

const snapshotColumns = `id, product_id, coverage_score, premium_score, special_condition_score, total_score, calculated_at`

// Save appends a snapshot.
func (s *scoreStore) Save(ctx context.Context, snapshot *domain.ScoreSnapshot) error {
	if snapshot.CalculatedAt.IsZero() {
		snapshot.CalculatedAt = s.store.now()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO score_snapshots (product_id, coverage_score, premium_score, special_condition_score, total_score, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		snapshot.ProductID,
		snapshot.CoverageScore,
		snapshot.PremiumScore,
		snapshot.SpecialConditionScore,
		snapshot.TotalScore,
		formatTime(snapshot.CalculatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting score snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading snapshot id: %w", err)
	}
	snapshot.ID = id
	return nil
}

// Latest returns the most recent snapshot, or nil when none exists.
func (s *scoreStore) Latest(ctx context.Context, productID int64) (*domain.ScoreSnapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+` FROM score_snapshots
		WHERE product_id = ?
		ORDER BY calculated_at DESC, id DESC
		LIMIT 1
	`, productID)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest score: %w", err)
	}
	return snap, nil
}

// History returns every snapshot of a product, newest first.
func (s *scoreStore) History(ctx context.Context, productID int64) ([]domain.ScoreSnapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+` FROM score_snapshots
		WHERE product_id = ?
		ORDER BY calculated_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("querying score history: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

func scanSnapshot(row rowScanner) (*domain.ScoreSnapshot, error) {
	var (
		snap         domain.ScoreSnapshot
		calculatedAt string
	)
	err := row.Scan(
		&snap.ID,
		&snap.ProductID,
		&snap.CoverageScore,
		&snap.PremiumScore,
		&snap.SpecialConditionScore,
		&snap.TotalScore,
		&calculatedAt,
	)
	if err != nil {
		return nil, err
	}
	if snap.CalculatedAt, err = parseTime(calculatedAt); err != nil {
		return nil, err
	}
	return &snap, nil
}
