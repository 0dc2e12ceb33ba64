package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/services"
)

// mockRankingService is a mock implementation of driving.RankingService.
type mockRankingService struct {
	ranking *domain.Ranking
	opts    domain.RankingOptions
	err     error
}

func (m *mockRankingService) Ranking(_ context.Context, opts domain.RankingOptions) (*domain.Ranking, error) {
	m.opts = opts
	return m.ranking, m.err
}

// mockScoreService is a mock implementation of driving.ScoreService.
type mockScoreService struct {
	snapshot *domain.ScoreSnapshot
	err      error
}

func (m *mockScoreService) ComputeScore(_ context.Context, _ int64) (*domain.ScoreSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockScoreService) GetScore(_ context.Context, _ int64) (*domain.ScoreSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockScoreService) Ensure(_ context.Context, _ int64) (*domain.ScoreSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockScoreService) History(_ context.Context, _ int64) ([]domain.ScoreSnapshot, error) {
	if m.snapshot == nil {
		return nil, m.err
	}
	return []domain.ScoreSnapshot{*m.snapshot}, m.err
}

// catalogue is a server over real services and a seeded memory store.
type catalogue struct {
	server *Server
	store  *memory.Store
	ids    map[string]int64
}

func newCatalogue(t *testing.T) *catalogue {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	clock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	locks := services.NewProductLocks()
	scores := services.NewScoreService(store.Products(), store.Scores(), locks)
	products := services.NewProductService(store.Products(), store.Companies(), scores, locks)

	server, err := NewServer(&Ports{
		Ranking:    services.NewRankingService(store.Products(), scores),
		Score:      scores,
		Duplicates: services.NewDuplicateService(store.Products(), locks),
		Products:   products,
		Compare:    services.NewCompareService(store.Products(), scores),
		Companies:  services.NewCompanyService(store.Companies()),
	})
	require.NoError(t, err)

	c := &catalogue{server: server, store: store, ids: map[string]int64{}}

	premium := 30_000.0
	for _, seed := range []struct {
		company, companyType, file, title string
		amount                            float64
	}{
		{"삼성생명", "life", "/docs/samsung.pdf", "암보험", 90_000_000},
		{"한화생명", "life", "/docs/hanwha.pdf", "종신보험", 10_000_000},
		{"DB손해보험", "non-life", "/docs/db.pdf", "운전자보험", 30_000_000},
	} {
		report, err := products.Ingest(ctx, domain.IngestRequest{
			CompanyName: seed.company,
			CompanyType: domain.CompanyType(seed.companyType),
			File:        domain.SourceFile{Path: seed.file},
			Products: []domain.ExtractedProduct{{
				Title:    seed.title,
				Keywords: []string{"보장"},
				StructuredData: &domain.StructuredData{
					PremiumAmount:     &premium,
					CoverageAmounts:   []domain.ExtractedAmount{{Category: "암", Amount: seed.amount}},
					SpecialConditions: []string{"납입면제"},
				},
			}},
		})
		require.NoError(t, err)
		require.Len(t, report.ProductIDs, 1)
		c.ids[seed.title] = report.ProductIDs[0]
	}
	return c
}
