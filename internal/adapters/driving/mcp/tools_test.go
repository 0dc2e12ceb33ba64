package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

func TestServer_handleRank(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks seeded products", func(t *testing.T) {
		c := newCatalogue(t)

		_, output, err := c.server.handleRank(ctx, nil, RankInput{})

		require.NoError(t, err)
		assert.Equal(t, 3, output.TotalCount)
		assert.Equal(t, 3, output.DisplayedCount)
		require.Len(t, output.Products, 3)
		assert.Equal(t, 1, output.Products[0].Rank)
		assert.Equal(t, c.ids["암보험"], output.Products[0].ProductID)
		require.NotNil(t, output.Products[0].Score)
		for i := 1; i < len(output.Products); i++ {
			assert.GreaterOrEqual(t, output.Products[i-1].Score.Total, output.Products[i].Score.Total)
		}
	})

	t.Run("filters by company type and limit", func(t *testing.T) {
		c := newCatalogue(t)

		_, output, err := c.server.handleRank(ctx, nil, RankInput{CompanyType: "생명보험", Limit: 1})

		require.NoError(t, err)
		assert.Equal(t, 2, output.TotalCount)
		assert.Equal(t, 1, output.DisplayedCount)
		assert.Equal(t, "life", output.Products[0].CompanyType)
	})

	t.Run("rejects unknown company type", func(t *testing.T) {
		mock := &mockRankingService{}
		server, err := NewServer(&Ports{Ranking: mock, Score: &mockScoreService{}})
		require.NoError(t, err)

		_, _, err = server.handleRank(ctx, nil, RankInput{CompanyType: "marine"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unscored product has no score", func(t *testing.T) {
		mock := &mockRankingService{ranking: &domain.Ranking{
			Products:       []domain.RankedProduct{{Product: domain.Product{ID: 7, Title: "x"}}},
			TotalCount:     1,
			DisplayedCount: 1,
		}}
		server, err := NewServer(&Ports{Ranking: mock, Score: &mockScoreService{}})
		require.NoError(t, err)

		_, output, err := server.handleRank(ctx, nil, RankInput{Limit: 5})
		require.NoError(t, err)
		assert.Nil(t, output.Products[0].Score)
		assert.Equal(t, 5, mock.opts.Limit)
	})

	t.Run("propagates ranking failure", func(t *testing.T) {
		mock := &mockRankingService{err: errors.New("store down")}
		server, err := NewServer(&Ports{Ranking: mock, Score: &mockScoreService{}})
		require.NoError(t, err)

		_, _, err = server.handleRank(ctx, nil, RankInput{})
		assert.ErrorContains(t, err, "store down")
	})
}

func TestServer_handleScores(t *testing.T) {
	ctx := context.Background()
	c := newCatalogue(t)
	id := c.ids["암보험"]

	_, got, err := c.server.handleGetScore(ctx, nil, ProductIDInput{ProductID: id})
	require.NoError(t, err)
	assert.True(t, got.Scored)
	require.NotNil(t, got.Score)
	assert.InDelta(t, got.Score.Coverage+got.Score.Premium+got.Score.SpecialCondition, got.Score.Total, 0.001)

	_, computed, err := c.server.handleComputeScore(ctx, nil, ProductIDInput{ProductID: id})
	require.NoError(t, err)
	assert.InDelta(t, got.Score.Total, computed.Score.Total, 0.001)

	history, err := c.store.Scores().History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, _, err = c.server.handleComputeScore(ctx, nil, ProductIDInput{ProductID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleGetScore_Unscored(t *testing.T) {
	server, err := NewServer(&Ports{Ranking: &mockRankingService{}, Score: &mockScoreService{}})
	require.NoError(t, err)

	_, got, err := server.handleGetScore(context.Background(), nil, ProductIDInput{ProductID: 3})
	require.NoError(t, err)
	assert.False(t, got.Scored)
	assert.Nil(t, got.Score)
	assert.Equal(t, int64(3), got.ProductID)
}

func TestScoreOutput_Format(t *testing.T) {
	out := scoreOutput(&domain.ScoreSnapshot{
		TotalScore:   55,
		CalculatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	assert.Equal(t, "2024-01-02T03:04:05Z", out.CalculatedAt)
	assert.Nil(t, scoreOutput(nil))
}

func TestServer_handleRemoveDuplicates(t *testing.T) {
	ctx := context.Background()
	c := newCatalogue(t)

	samsung, err := c.store.Companies().FindOrCreate(ctx, "삼성생명", domain.CompanyTypeLife)
	require.NoError(t, err)
	dup := &domain.Product{CompanyID: samsung.ID, Title: "암보험"}
	require.NoError(t, c.store.Products().Create(ctx, dup, nil, nil))

	_, output, err := c.server.handleRemoveDuplicates(ctx, nil, DedupInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, output.DeletedCount)
	assert.Equal(t, 1, output.DuplicateGroupCount)
	assert.Equal(t, []int64{c.ids["암보험"]}, output.DeletedIDs)

	server, err := NewServer(&Ports{Ranking: &mockRankingService{}, Score: &mockScoreService{}})
	require.NoError(t, err)
	_, _, err = server.handleRemoveDuplicates(ctx, nil, DedupInput{})
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()
	c := newCatalogue(t)

	_, output, err := c.server.handleSearch(ctx, nil, SearchInput{Query: "보험", CompanyType: "non-life"})
	require.NoError(t, err)
	assert.Equal(t, 1, output.TotalCount)
	require.Len(t, output.Products, 1)
	assert.Equal(t, "운전자보험", output.Products[0].Title)
	assert.Equal(t, []string{"보장"}, output.Products[0].Keywords)

	_, output, err = c.server.handleSearch(ctx, nil, SearchInput{Keyword: "보장", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, output.TotalCount)
	assert.Equal(t, 2, output.Count)
}

func TestServer_handleCompare(t *testing.T) {
	ctx := context.Background()
	c := newCatalogue(t)

	_, output, err := c.server.handleCompare(ctx, nil, CompareInput{
		ProductIDs: []int64{c.ids["종신보험"], c.ids["암보험"]},
	})
	require.NoError(t, err)
	require.Len(t, output.Products, 2)
	assert.Equal(t, "종신보험", output.Products[0].Product.Title)
	assert.Equal(t, []AmountOutput{{Category: "암", Amount: 10_000_000}}, output.Products[0].CoverageAmounts)
	assert.Equal(t, []string{"납입면제"}, output.Products[0].SpecialConditions)
	assert.NotNil(t, output.Products[1].Score)

	_, _, err = c.server.handleCompare(ctx, nil, CompareInput{ProductIDs: []int64{c.ids["암보험"]}})
	assert.ErrorIs(t, err, domain.ErrTooFewProducts)
}

func TestServer_handleCompareCategory(t *testing.T) {
	ctx := context.Background()
	c := newCatalogue(t)

	_, output, err := c.server.handleCompareCategory(ctx, nil, CategoryInput{Category: "암", CompanyType: "life"})
	require.NoError(t, err)
	require.Len(t, output.Offers, 2)
	assert.Equal(t, "암보험", output.Offers[0].Product.Title)
	assert.InDelta(t, 90_000_000, output.Offers[0].Amount, 0.001)

	_, _, err = c.server.handleCompareCategory(ctx, nil, CategoryInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
