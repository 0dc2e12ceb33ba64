package memory

import (
	"context"
	"sort"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// Ensure CompanyStore implements the interface.
var _ driven.CompanyStore = (*CompanyStore)(nil)

// CompanyStore is an in-memory implementation of driven.CompanyStore.
type CompanyStore struct {
	s *Store
}

// FindOrCreate returns the company with the name and type, creating it when absent.
func (c *CompanyStore) FindOrCreate(_ context.Context, name string, companyType domain.CompanyType) (*domain.Company, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, existing := range c.s.companies {
		if existing.Name == name && existing.Type == companyType {
			return &existing, nil
		}
	}

	now := c.s.now()
	c.s.nextCompanyID++
	company := domain.Company{
		ID:        c.s.nextCompanyID,
		Name:      name,
		Type:      companyType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.s.companies[company.ID] = company
	return &company, nil
}

// Get retrieves a company by ID.
func (c *CompanyStore) Get(_ context.Context, id int64) (*domain.Company, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	company, ok := c.s.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &company, nil
}

// List returns companies ordered by name.
func (c *CompanyStore) List(_ context.Context, companyType domain.CompanyType) ([]domain.Company, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var out []domain.Company
	for _, company := range c.s.companies {
		if companyType != "" && company.Type != companyType {
			continue
		}
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
