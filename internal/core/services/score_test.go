package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

func TestScoreService_ComputeScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)

	p := env.product(t, c.ID, "암보험", ptr(30_000.0),
		[]domain.CoverageAmount{amount("암", 90_000_000)},
		"보험료 납입면제", "만기 환급", "입원일당")

	snap, err := env.scores.ComputeScore(ctx, p.ID)
	require.NoError(t, err)

	// coverage: min(2.0*5, 5) + 0 bonus + 6 for 90M
	assert.InDelta(t, 11.0, snap.CoverageScore, 1e-9)
	assert.InDelta(t, 35.0, snap.PremiumScore, 1e-9)
	assert.InDelta(t, 9.0, snap.SpecialConditionScore, 1e-9)
	assert.InDelta(t, 55.0, snap.TotalScore, 1e-9)
	assert.Equal(t, p.ID, snap.ProductID)
	assert.NotZero(t, snap.ID)
	assert.False(t, snap.CalculatedAt.IsZero())

	latest, err := env.scores.GetScore(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, snap.ID, latest.ID)
}

func TestScoreService_ComputeScore_SingleCancerCoverage(t *testing.T) {
	env := newTestEnv(t)
	c := env.company(t, "한화생명", domain.CompanyTypeLife)
	p := env.product(t, c.ID, "암보험", nil, []domain.CoverageAmount{amount("암", 100_000_000)})

	snap, err := env.scores.ComputeScore(context.Background(), p.ID)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, snap.CoverageScore, 1e-9)
	assert.InDelta(t, 20.0, snap.PremiumScore, 1e-9)
	assert.Equal(t, 0.0, snap.SpecialConditionScore)
	assert.InDelta(t, 32.0, snap.TotalScore, 1e-9)
}

func TestScoreService_ComputeScore_NotFound(t *testing.T) {
	env := newTestEnv(t)

	snap, err := env.scores.ComputeScore(context.Background(), 404)
	assert.Nil(t, snap)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestScoreService_ComputeScore_MalformedStructuredData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)

	p := &domain.Product{
		CompanyID:          c.ID,
		Title:              "broken",
		PremiumAmount:      ptr(30_000.0),
		StructuredDataJSON: `{"coveragePeriod": "100세"`,
	}
	require.NoError(t, env.store.Products().Create(ctx, p, []domain.CoverageAmount{amount("암", 90_000_000)}, nil))

	snap, err := env.scores.ComputeScore(ctx, p.ID)
	require.NoError(t, err)
	// no period bonus without structured data
	assert.InDelta(t, 35.0, snap.PremiumScore, 1e-9)
}

func TestScoreService_ComputeScore_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)
	p := env.product(t, c.ID, "암보험", nil, nil)

	cause := errors.New("disk full")
	env.store.Scores().FailSaves(cause)

	snap, err := env.scores.ComputeScore(ctx, p.ID)
	assert.Nil(t, snap)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.True(t, errors.Is(err, cause))

	env.store.Scores().FailSaves(nil)
	latest, err := env.scores.GetScore(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestScoreService_GetScore_NoSnapshot(t *testing.T) {
	env := newTestEnv(t)
	c := env.company(t, "한화생명", domain.CompanyTypeLife)
	p := env.product(t, c.ID, "암보험", nil, nil)

	snap, err := env.scores.GetScore(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestScoreService_Ensure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)
	p := env.product(t, c.ID, "암보험", nil, []domain.CoverageAmount{amount("암", 100_000_000)})

	first, err := env.scores.Ensure(ctx, p.ID)
	require.NoError(t, err)
	second, err := env.scores.Ensure(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	history, err := env.scores.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestScoreService_RecomputeAppends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "한화생명", domain.CompanyTypeLife)
	p := env.product(t, c.ID, "암보험", nil, []domain.CoverageAmount{amount("암", 100_000_000)})

	a, err := env.scores.ComputeScore(ctx, p.ID)
	require.NoError(t, err)
	b, err := env.scores.ComputeScore(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, a.TotalScore, b.TotalScore)

	history, err := env.scores.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
