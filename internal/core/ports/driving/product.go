package driving

import (
	"context"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// ProductService manages extracted products.
type ProductService interface {
	// Ingest replaces the products of one source file with freshly extracted
	// records and scores each of them.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestReport, error)

	// Get returns a product with its child rows and parsed structured data.
	Get(ctx context.Context, id int64) (*domain.ProductDetails, error)

	// Update applies a partial update and rescores the product.
	Update(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.ProductDetails, error)

	// Search returns one page of matching products.
	Search(ctx context.Context, query domain.ProductQuery) (*domain.SearchResult, error)

	// GroupedByCompany returns products grouped by company.
	GroupedByCompany(ctx context.Context, companyType domain.CompanyType) ([]domain.CompanyProducts, error)

	// Categories returns the distinct product categories.
	Categories(ctx context.Context) ([]string, error)

	// Keywords returns the distinct indexed keywords.
	Keywords(ctx context.Context) ([]string, error)

	// Delete removes one product.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every product and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)
}

// CompareService puts products side by side.
type CompareService interface {
	// Compare returns details and scores for the products, in the order given.
	// Unknown ids are skipped; fewer than two found products is
	// domain.ErrTooFewProducts.
	Compare(ctx context.Context, ids []int64) ([]domain.ProductComparison, error)

	// CompareByCategory returns the products covering a category, largest amount first.
	CompareByCategory(ctx context.Context, category string, companyType domain.CompanyType) ([]domain.CategoryOffer, error)
}

// CompanyService lists insurers.
type CompanyService interface {
	// List returns companies ordered by name. An empty type means all.
	List(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error)
}
