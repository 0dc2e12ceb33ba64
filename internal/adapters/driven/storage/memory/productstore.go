package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// Ensure ProductStore implements the interface.
var _ driven.ProductStore = (*ProductStore)(nil)

// ProductStore is an in-memory implementation of driven.ProductStore.
type ProductStore struct {
	s *Store
}

// Create stores a new product and its child rows.
func (ps *ProductStore) Create(_ context.Context, p *domain.Product, amounts []domain.CoverageAmount, conditions []domain.SpecialCondition) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, ok := ps.s.companies[p.CompanyID]; !ok {
		return domain.ErrNotFound
	}

	now := ps.s.now()
	ps.s.nextProductID++
	p.ID = ps.s.nextProductID
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now

	ps.s.products[p.ID] = *p
	ps.s.replaceChildren(p.ID, amounts, conditions)
	*p = ps.s.withCompany(*p)
	return nil
}

// Update applies a partial update.
func (ps *ProductStore) Update(_ context.Context, id int64, update domain.ProductUpdate) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	p, ok := ps.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}

	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Content != nil {
		p.Content = *update.Content
	}
	if update.Keywords != nil {
		p.Keywords = *update.Keywords
	}
	if update.Category != nil {
		p.Category = update.Category
	}
	if sd := update.StructuredData; sd != nil {
		encoded, err := sd.Encode()
		if err != nil {
			return err
		}
		p.StructuredDataJSON = encoded
		p.PremiumAmount = sd.PremiumAmount
		p.CoveragePeriod = sd.CoveragePeriod
		ps.s.replaceChildren(id, sd.Amounts(), sd.Conditions())
	}

	p.Version++
	p.UpdatedAt = ps.s.now()
	ps.s.products[id] = p
	return nil
}

// Get retrieves a product by ID.
func (ps *ProductStore) Get(_ context.Context, id int64) (*domain.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	p, ok := ps.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = ps.s.withCompany(p)
	return &p, nil
}

// Amounts returns the coverage amounts of a product.
func (ps *ProductStore) Amounts(_ context.Context, productID int64) ([]domain.CoverageAmount, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	return slices.Clone(ps.s.amounts[productID]), nil
}

// Conditions returns the special conditions of a product.
func (ps *ProductStore) Conditions(_ context.Context, productID int64) ([]domain.SpecialCondition, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	return slices.Clone(ps.s.conditions[productID]), nil
}

// ListByFile returns products extracted from the file path.
func (ps *ProductStore) ListByFile(_ context.Context, filePath string) ([]domain.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []domain.Product
	for _, p := range ps.s.products {
		if p.FilePath == filePath {
			out = append(out, ps.s.withCompany(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// List returns products ordered by company name then title.
func (ps *ProductStore) List(_ context.Context, companyType domain.CompanyType) ([]domain.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []domain.Product
	for _, p := range ps.s.products {
		p = ps.s.withCompany(p)
		if companyType != "" && p.CompanyType != companyType {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CompanyName != b.CompanyName {
			return a.CompanyName < b.CompanyName
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
	return out, nil
}

// Search returns one page of matching products.
func (ps *ProductStore) Search(_ context.Context, q domain.ProductQuery) (*domain.SearchResult, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	text := strings.ToLower(q.Text)

	type hit struct {
		p    domain.Product
		rank int
	}
	var hits []hit
	for _, p := range ps.s.products {
		p = ps.s.withCompany(p)
		if !matchesFilters(p, q) {
			continue
		}
		rank := 0
		if text != "" {
			switch {
			case strings.Contains(strings.ToLower(p.Title), text):
				rank = 0
			case strings.Contains(strings.ToLower(p.Keywords), text):
				rank = 1
			case strings.Contains(strings.ToLower(p.Content), text):
				rank = 2
			default:
				continue
			}
		}
		hits = append(hits, hit{p: p, rank: rank})
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if !a.p.UpdatedAt.Equal(b.p.UpdatedAt) {
			return a.p.UpdatedAt.After(b.p.UpdatedAt)
		}
		return a.p.ID > b.p.ID
	})

	result := &domain.SearchResult{TotalCount: len(hits), Products: []domain.Product{}}
	start := min(q.Offset, len(hits))
	end := len(hits)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(hits))
	}
	for _, h := range hits[start:end] {
		result.Products = append(result.Products, h.p)
	}
	return result, nil
}

func matchesFilters(p domain.Product, q domain.ProductQuery) bool {
	if q.CompanyType != "" && p.CompanyType != q.CompanyType {
		return false
	}
	if len(q.CompanyIDs) > 0 && !slices.Contains(q.CompanyIDs, p.CompanyID) {
		return false
	}
	if len(q.Categories) > 0 && (p.Category == nil || !slices.Contains(q.Categories, *p.Category)) {
		return false
	}
	if len(q.Keywords) > 0 {
		kws := p.KeywordList()
		found := false
		for _, k := range q.Keywords {
			if slices.Contains(kws, k) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Categories returns the distinct non-empty categories, sorted.
func (ps *ProductStore) Categories(_ context.Context) ([]string, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, p := range ps.s.products {
		if p.Category != nil && *p.Category != "" {
			set[*p.Category] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// Keywords returns the distinct keywords, sorted.
func (ps *ProductStore) Keywords(_ context.Context) ([]string, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, p := range ps.s.products {
		for _, k := range p.KeywordList() {
			set[k] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CategoryOffers returns products covering the category, largest amount first.
func (ps *ProductStore) CategoryOffers(_ context.Context, category string, companyType domain.CompanyType) ([]domain.CategoryOffer, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []domain.CategoryOffer
	for id, rows := range ps.s.amounts {
		var total float64
		for _, a := range rows {
			if a.Category == category && a.Amount > 0 {
				total += a.Amount
			}
		}
		if total <= 0 {
			continue
		}
		p := ps.s.withCompany(ps.s.products[id])
		if companyType != "" && p.CompanyType != companyType {
			continue
		}
		out = append(out, domain.CategoryOffer{Product: p, Category: category, Amount: total})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		if !a.Product.UpdatedAt.Equal(b.Product.UpdatedAt) {
			return a.Product.UpdatedAt.After(b.Product.UpdatedAt)
		}
		return a.Product.ID > b.Product.ID
	})
	return out, nil
}

// RankingRows returns every product with its latest snapshot.
func (ps *ProductStore) RankingRows(_ context.Context, companyType domain.CompanyType) ([]domain.RankedProduct, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []domain.RankedProduct
	for id, p := range ps.s.products {
		p = ps.s.withCompany(p)
		if companyType != "" && p.CompanyType != companyType {
			continue
		}
		out = append(out, domain.RankedProduct{Product: p, Score: ps.s.latestScore(id)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out, nil
}

// DuplicateGroups returns every (company, title) group with more than one product.
func (ps *ProductStore) DuplicateGroups(_ context.Context) ([]domain.DuplicateGroup, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	type key struct {
		companyID int64
		title     string
	}
	members := make(map[key][]domain.Product)
	for _, p := range ps.s.products {
		k := key{p.CompanyID, p.Title}
		members[k] = append(members[k], p)
	}

	var groups []domain.DuplicateGroup
	for k, group := range members {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if !group[i].UpdatedAt.Equal(group[j].UpdatedAt) {
				return group[i].UpdatedAt.After(group[j].UpdatedAt)
			}
			return group[i].ID > group[j].ID
		})
		g := domain.DuplicateGroup{CompanyID: k.companyID, Title: k.title}
		for _, p := range group {
			g.ProductIDs = append(g.ProductIDs, p.ID)
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CompanyID != groups[j].CompanyID {
			return groups[i].CompanyID < groups[j].CompanyID
		}
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}

// Delete removes a product and everything attached to it.
func (ps *ProductStore) Delete(_ context.Context, id int64) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, ok := ps.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	ps.s.deleteProduct(id)
	return nil
}

// DeleteByFile removes every product extracted from the file path.
func (ps *ProductStore) DeleteByFile(_ context.Context, filePath string) (int, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	n := 0
	for id, p := range ps.s.products {
		if p.FilePath == filePath {
			ps.s.deleteProduct(id)
			n++
		}
	}
	return n, nil
}

// DeleteAll removes every product.
func (ps *ProductStore) DeleteAll(_ context.Context) (int, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	n := len(ps.s.products)
	for id := range ps.s.products {
		ps.s.deleteProduct(id)
	}
	return n, nil
}
