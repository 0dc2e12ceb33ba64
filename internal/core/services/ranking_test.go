package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
)

// mockScorer fails for chosen products and delegates the rest.
type mockScorer struct {
	driving.ScoreService
	fail  map[int64]bool
	calls map[int64]int
}

var _ driving.ScoreService = (*mockScorer)(nil)

func (m *mockScorer) ComputeScore(ctx context.Context, id int64) (*domain.ScoreSnapshot, error) {
	m.calls[id]++
	if m.fail[id] {
		return nil, errors.New("scoring backend down")
	}
	return m.ScoreService.ComputeScore(ctx, id)
}

func row(id int64, updated time.Time, total *float64) domain.RankedProduct {
	r := domain.RankedProduct{Product: domain.Product{ID: id, UpdatedAt: updated}}
	if total != nil {
		r.Score = &domain.ScoreSnapshot{ProductID: id, TotalScore: *total}
	}
	return r
}

func rankedIDs(r *domain.Ranking) []int64 {
	out := make([]int64, 0, len(r.Products))
	for _, p := range r.Products {
		out = append(out, p.Product.ID)
	}
	return out
}

func TestAssembleRanking_ScoredBeforeUnscored(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	rows := []domain.RankedProduct{
		row(1, day(1), nil),
		row(2, day(2), ptr(40.0)),
		row(3, day(9), nil),
		row(4, day(3), ptr(80.0)),
		row(5, day(5), nil),
	}

	r := assembleRanking(rows, 0)

	assert.Equal(t, []int64{4, 2, 3, 5, 1}, rankedIDs(r))
	assert.Equal(t, 5, r.TotalCount)
	assert.Equal(t, 5, r.DisplayedCount)
}

func TestAssembleRanking_TieTolerance(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	rows := []domain.RankedProduct{
		row(1, older, ptr(50.005)),
		row(2, newer, ptr(50.0)),
		row(3, older, ptr(50.02)),
	}

	r := assembleRanking(rows, 0)

	// 50.02 is clearly ahead; 50.005 and 50.0 tie and the newer wins
	assert.Equal(t, []int64{3, 2, 1}, rankedIDs(r))
}

func TestAssembleRanking_EqualTimestampsFallBackToID(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.RankedProduct{row(1, at, ptr(10.0)), row(2, at, ptr(10.0)), row(3, at, nil), row(4, at, nil)}

	r := assembleRanking(rows, 0)

	assert.Equal(t, []int64{2, 1, 4, 3}, rankedIDs(r))
}

func TestAssembleRanking_DedupThenLimit(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.RankedProduct{
		row(1, at, ptr(90.0)),
		row(1, at, ptr(90.0)),
		row(2, at, ptr(70.0)),
		row(3, at, nil),
	}

	r := assembleRanking(rows, 2)

	assert.Equal(t, []int64{1, 2}, rankedIDs(r))
	assert.Equal(t, 3, r.TotalCount)
	assert.Equal(t, 2, r.DisplayedCount)
}

func TestAssembleRanking_LimitLargerThanResult(t *testing.T) {
	r := assembleRanking([]domain.RankedProduct{row(1, time.Now(), nil)}, 10)
	assert.Equal(t, 1, r.TotalCount)
	assert.Equal(t, 1, r.DisplayedCount)
}

func TestAssembleRanking_Empty(t *testing.T) {
	r := assembleRanking(nil, 0)
	assert.Empty(t, r.Products)
	assert.Zero(t, r.TotalCount)
}

func TestAssembleRanking_TotalOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []domain.RankedProduct
	for i := int64(1); i <= 40; i++ {
		total := float64((i * 37) % 11 * 7)
		rows = append(rows, row(i, base.Add(time.Duration(i*13%17)*time.Hour), &total))
	}

	r := assembleRanking(rows, 0)

	for i := 1; i < len(r.Products); i++ {
		a, b := r.Products[i-1], r.Products[i]
		if a.Score.TotalScore == b.Score.TotalScore {
			assert.False(t, a.Product.UpdatedAt.Before(b.Product.UpdatedAt), "position %d", i)
		} else {
			assert.Greater(t, a.Score.TotalScore, b.Score.TotalScore, "position %d", i)
		}
	}
}

func TestRankingService_ComputesMissingScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)

	weak := env.product(t, c.ID, "weak", nil, []domain.CoverageAmount{amount("연금", 1_000_000)})
	strong := env.product(t, c.ID, "strong", ptr(30_000.0), []domain.CoverageAmount{amount("암", 200_000_000)})

	r, err := env.ranking.Ranking(ctx, domain.RankingOptions{})
	require.NoError(t, err)

	assert.Equal(t, []int64{strong.ID, weak.ID}, rankedIDs(r))
	for _, p := range r.Products {
		assert.True(t, p.IsScored())
	}

	// computed scores were persisted
	snap, err := env.scores.GetScore(ctx, weak.ID)
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestRankingService_UnscoredProductAfterScored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)

	a := env.product(t, c.ID, "a", nil, nil)
	b := env.product(t, c.ID, "b", nil, nil)
	d := env.product(t, c.ID, "d", nil, nil)
	scored := env.product(t, c.ID, "scored", nil, []domain.CoverageAmount{amount("암", 10_000_000)})

	scorer := &mockScorer{
		ScoreService: env.scores,
		fail:         map[int64]bool{a.ID: true, b.ID: true, d.ID: true},
		calls:        map[int64]int{},
	}
	svc := NewRankingService(env.store.Products(), scorer)

	r, err := svc.Ranking(ctx, domain.RankingOptions{})
	require.NoError(t, err)

	// failures are kept, unscored, newest first
	assert.Equal(t, []int64{scored.ID, d.ID, b.ID, a.ID}, rankedIDs(r))
	assert.True(t, r.Products[0].IsScored())
	assert.False(t, r.Products[1].IsScored())
	assert.Equal(t, 1, scorer.calls[a.ID])
}

func TestRankingService_FilterAndLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	life := env.company(t, "한화생명", domain.CompanyTypeLife)
	nonLife := env.company(t, "DB손해보험", domain.CompanyTypeNonLife)

	env.product(t, life.ID, "l1", nil, []domain.CoverageAmount{amount("암", 10_000_000)})
	env.product(t, life.ID, "l2", nil, []domain.CoverageAmount{amount("암", 50_000_000)})
	n1 := env.product(t, nonLife.ID, "n1", nil, nil)

	r, err := env.ranking.Ranking(ctx, domain.RankingOptions{CompanyType: domain.CompanyTypeLife, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalCount)
	assert.Equal(t, 1, r.DisplayedCount)
	assert.Equal(t, "l2", r.Products[0].Product.Title)

	r, err = env.ranking.Ranking(ctx, domain.RankingOptions{CompanyType: domain.CompanyTypeNonLife})
	require.NoError(t, err)
	assert.Equal(t, []int64{n1.ID}, rankedIDs(r))
}

func TestRankingService_CancelledContext(t *testing.T) {
	env := newTestEnv(t)
	c := env.company(t, "한화생명", domain.CompanyTypeLife)
	env.product(t, c.ID, "a", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.ranking.Ranking(ctx, domain.RankingOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
