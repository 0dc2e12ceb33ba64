package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// Store holds the shared state behind the memory stores.
type Store struct {
	mu sync.RWMutex

	companies  map[int64]domain.Company
	products   map[int64]domain.Product
	amounts    map[int64][]domain.CoverageAmount
	conditions map[int64][]domain.SpecialCondition
	scores     map[int64][]domain.ScoreSnapshot

	nextCompanyID   int64
	nextProductID   int64
	nextAmountID    int64
	nextConditionID int64
	nextScoreID     int64

	now func() time.Time

	productStore *ProductStore
	companyStore *CompanyStore
	scoreStore   *ScoreStore
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	s := &Store{
		companies:  make(map[int64]domain.Company),
		products:   make(map[int64]domain.Product),
		amounts:    make(map[int64][]domain.CoverageAmount),
		conditions: make(map[int64][]domain.SpecialCondition),
		scores:     make(map[int64][]domain.ScoreSnapshot),
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.productStore = &ProductStore{s: s}
	s.companyStore = &CompanyStore{s: s}
	s.scoreStore = &ScoreStore{s: s}
	return s
}

// SetClock replaces the clock used for created and updated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Products returns the product store.
func (s *Store) Products() *ProductStore {
	return s.productStore
}

// Companies returns the company store.
func (s *Store) Companies() *CompanyStore {
	return s.companyStore
}

// Scores returns the score store.
func (s *Store) Scores() *ScoreStore {
	return s.scoreStore
}

// withCompany fills the denormalised company fields. Caller holds the lock.
func (s *Store) withCompany(p domain.Product) domain.Product {
	if c, ok := s.companies[p.CompanyID]; ok {
		p.CompanyName = c.Name
		p.CompanyType = c.Type
	}
	return p
}

// latestScore returns the newest snapshot of a product. Caller holds the lock.
func (s *Store) latestScore(productID int64) *domain.ScoreSnapshot {
	var latest *domain.ScoreSnapshot
	for i := range s.scores[productID] {
		snap := s.scores[productID][i]
		if latest == nil || snap.CalculatedAt.After(latest.CalculatedAt) ||
			(snap.CalculatedAt.Equal(latest.CalculatedAt) && snap.ID > latest.ID) {
			latest = &snap
		}
	}
	return latest
}

// deleteProduct removes a product and everything hanging off it.
// Caller holds the write lock.
func (s *Store) deleteProduct(id int64) {
	delete(s.products, id)
	delete(s.amounts, id)
	delete(s.conditions, id)
	delete(s.scores, id)
}

// replaceChildren swaps a product's amounts and conditions wholesale.
// Caller holds the write lock.
func (s *Store) replaceChildren(id int64, amounts []domain.CoverageAmount, conditions []domain.SpecialCondition) {
	rows := make([]domain.CoverageAmount, 0, len(amounts))
	for _, a := range amounts {
		s.nextAmountID++
		a.ID = s.nextAmountID
		a.ProductID = id
		rows = append(rows, a)
	}
	s.amounts[id] = rows

	conds := make([]domain.SpecialCondition, 0, len(conditions))
	for _, c := range conditions {
		s.nextConditionID++
		c.ID = s.nextConditionID
		c.ProductID = id
		conds = append(conds, c)
	}
	s.conditions[id] = conds
}
