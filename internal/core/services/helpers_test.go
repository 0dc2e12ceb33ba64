package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/covrank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/covrank/internal/core/domain"
)

// testEnv wires every service over one memory store.
type testEnv struct {
	store      *memory.Store
	locks      *ProductLocks
	scores     *ScoreService
	ranking    *RankingService
	duplicates *DuplicateService
	products   *ProductService
	compare    *CompareService
	companies  *CompanyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	locks := NewProductLocks()
	scores := NewScoreService(store.Products(), store.Scores(), locks)
	return &testEnv{
		store:      store,
		locks:      locks,
		scores:     scores,
		ranking:    NewRankingService(store.Products(), scores),
		duplicates: NewDuplicateService(store.Products(), locks),
		products:   NewProductService(store.Products(), store.Companies(), scores, locks),
		compare:    NewCompareService(store.Products(), scores),
		companies:  NewCompanyService(store.Companies()),
	}
}

func (e *testEnv) company(t *testing.T, name string, companyType domain.CompanyType) *domain.Company {
	t.Helper()
	c, err := e.store.Companies().FindOrCreate(context.Background(), name, companyType)
	require.NoError(t, err)
	return c
}

// product stores a product directly, bypassing ingestion and scoring.
func (e *testEnv) product(t *testing.T, companyID int64, title string, premium *float64, amounts []domain.CoverageAmount, conditions ...string) *domain.Product {
	t.Helper()
	p := &domain.Product{CompanyID: companyID, Title: title, PremiumAmount: premium}
	var conds []domain.SpecialCondition
	for _, c := range conditions {
		conds = append(conds, domain.NewSpecialCondition(c))
	}
	require.NoError(t, e.store.Products().Create(context.Background(), p, amounts, conds))
	return p
}

func ptr[T any](v T) *T {
	return &v
}

func amount(category string, value float64) domain.CoverageAmount {
	return domain.CoverageAmount{Category: category, Amount: value}
}
