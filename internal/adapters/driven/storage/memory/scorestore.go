package memory

import (
	"context"
	"sort"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// Ensure ScoreStore implements the interface.
var _ driven.ScoreStore = (*ScoreStore)(nil)

// ScoreStore is an in-memory implementation of driven.ScoreStore.
type ScoreStore struct {
	s *Store

	// failSave makes Save fail, for exercising storage errors.
	failSave error
}

// FailSaves makes every following Save return err. Pass nil to restore.
func (st *ScoreStore) FailSaves(err error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.failSave = err
}

// Save appends a snapshot.
func (st *ScoreStore) Save(_ context.Context, snapshot *domain.ScoreSnapshot) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if st.failSave != nil {
		return st.failSave
	}
	if _, ok := st.s.products[snapshot.ProductID]; !ok {
		return domain.ErrNotFound
	}

	st.s.nextScoreID++
	snapshot.ID = st.s.nextScoreID
	st.s.scores[snapshot.ProductID] = append(st.s.scores[snapshot.ProductID], *snapshot)
	return nil
}

// Latest returns the most recent snapshot, or nil when none exists.
func (st *ScoreStore) Latest(_ context.Context, productID int64) (*domain.ScoreSnapshot, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return st.s.latestScore(productID), nil
}

// History returns every snapshot of a product, newest first.
func (st *ScoreStore) History(_ context.Context, productID int64) ([]domain.ScoreSnapshot, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	out := append([]domain.ScoreSnapshot(nil), st.s.scores[productID]...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CalculatedAt.Equal(out[j].CalculatedAt) {
			return out[i].CalculatedAt.After(out[j].CalculatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
