package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// failingDeletes refuses to delete selected products.
type failingDeletes struct {
	driven.ProductStore
	fail map[int64]bool
}

func (f *failingDeletes) Delete(ctx context.Context, id int64) error {
	if f.fail[id] {
		return errors.New("disk full")
	}
	return f.ProductStore.Delete(ctx, id)
}

// dates makes the store hand out the given days as timestamps, in order.
func dates(env *testEnv, days ...int) {
	i := 0
	env.store.SetClock(func() time.Time {
		d := days[i%len(days)]
		i++
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	})
}

func TestRemoveDuplicates_KeepsNewest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "삼성생명", domain.CompanyTypeLife)

	dates(env, 1, 5, 3)
	jan1 := env.product(t, c.ID, "암보험", nil, nil)
	jan5 := env.product(t, c.ID, "암보험", nil, nil)
	jan3 := env.product(t, c.ID, "암보험", nil, nil)

	report, err := env.duplicates.RemoveDuplicates(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.DeletedCount)
	assert.Equal(t, 1, report.DuplicateGroupCount)
	assert.ElementsMatch(t, []int64{jan1.ID, jan3.ID}, report.DeletedIDs)

	_, err = env.store.Products().Get(ctx, jan5.ID)
	assert.NoError(t, err)
	_, err = env.store.Products().Get(ctx, jan1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveDuplicates_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "삼성생명", domain.CompanyTypeLife)
	env.product(t, c.ID, "암보험", nil, nil)
	env.product(t, c.ID, "암보험", nil, nil)

	first, err := env.duplicates.RemoveDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DeletedCount)

	second, err := env.duplicates.RemoveDuplicates(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.DeletedCount)
	assert.Zero(t, second.DuplicateGroupCount)
	assert.Empty(t, second.DeletedIDs)
}

func TestRemoveDuplicates_GroupsByCompanyAndTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	samsung := env.company(t, "삼성생명", domain.CompanyTypeLife)
	hanwha := env.company(t, "한화생명", domain.CompanyTypeLife)

	env.product(t, samsung.ID, "암보험", nil, nil)
	env.product(t, hanwha.ID, "암보험", nil, nil)
	env.product(t, samsung.ID, "종신보험", nil, nil)

	report, err := env.duplicates.RemoveDuplicates(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.DeletedCount)
	assert.Zero(t, report.DuplicateGroupCount)
}

func TestRemoveDuplicates_ScoresGoWithProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "삼성생명", domain.CompanyTypeLife)
	old := env.product(t, c.ID, "암보험", nil, nil)
	env.product(t, c.ID, "암보험", nil, nil)

	_, err := env.scores.ComputeScore(ctx, old.ID)
	require.NoError(t, err)

	_, err = env.duplicates.RemoveDuplicates(ctx)
	require.NoError(t, err)

	history, err := env.store.Scores().History(ctx, old.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRemoveDuplicates_FailingGroupDoesNotStopRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.company(t, "삼성생명", domain.CompanyTypeLife)

	stuck := env.product(t, c.ID, "가보험", nil, nil)
	env.product(t, c.ID, "가보험", nil, nil)
	gone := env.product(t, c.ID, "나보험", nil, nil)
	env.product(t, c.ID, "나보험", nil, nil)

	products := &failingDeletes{ProductStore: env.store.Products(), fail: map[int64]bool{stuck.ID: true}}
	svc := NewDuplicateService(products, env.locks)

	report, err := svc.RemoveDuplicates(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.DuplicateGroupCount)
	assert.Equal(t, 1, report.DeletedCount)
	assert.Equal(t, []int64{gone.ID}, report.DeletedIDs)

	_, err = env.store.Products().Get(ctx, stuck.ID)
	assert.NoError(t, err)
}

func TestRemoveDuplicates_CancelledContext(t *testing.T) {
	env := newTestEnv(t)
	c := env.company(t, "삼성생명", domain.CompanyTypeLife)
	env.product(t, c.ID, "암보험", nil, nil)
	env.product(t, c.ID, "암보험", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := env.duplicates.RemoveDuplicates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.DeletedCount)
}
