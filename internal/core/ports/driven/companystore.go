package driven

import (
	"context"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// CompanyStore persists insurers.
type CompanyStore interface {
	// FindOrCreate returns the company with the name and type, creating it
	// when absent. Companies are never duplicated.
	FindOrCreate(ctx context.Context, name string, companyType domain.CompanyType) (*domain.Company, error)

	// Get retrieves a company by ID.
	// Returns domain.ErrNotFound if the company does not exist.
	Get(ctx context.Context, id int64) (*domain.Company, error)

	// List returns companies ordered by name. An empty type means all.
	List(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error)
}
