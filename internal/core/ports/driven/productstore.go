package driven

import (
	"context"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// ProductStore persists products together with their coverage amounts and
// special conditions. Child rows are always replaced wholesale: Create and
// Update delete whatever rows a product had and insert the new set.
type ProductStore interface {
	// Create stores a new product and its child rows.
	// The product's ID, Version and timestamps are set on success.
	Create(ctx context.Context, p *domain.Product, amounts []domain.CoverageAmount, conditions []domain.SpecialCondition) error

	// Update applies a partial update, bumps the version and touches updated_at.
	// A non-nil StructuredData replaces every coverage amount and special condition.
	// Returns domain.ErrNotFound if the product does not exist.
	Update(ctx context.Context, id int64, update domain.ProductUpdate) error

	// Get retrieves a product with its company name and type.
	// Returns domain.ErrNotFound if the product does not exist.
	Get(ctx context.Context, id int64) (*domain.Product, error)

	// Amounts returns the coverage amounts of a product in insertion order.
	Amounts(ctx context.Context, productID int64) ([]domain.CoverageAmount, error)

	// Conditions returns the special conditions of a product in insertion order.
	Conditions(ctx context.Context, productID int64) ([]domain.SpecialCondition, error)

	// ListByFile returns products extracted from the given file path.
	ListByFile(ctx context.Context, filePath string) ([]domain.Product, error)

	// List returns products ordered by company name then title.
	// An empty company type means all companies.
	List(ctx context.Context, companyType domain.CompanyType) ([]domain.Product, error)

	// Search returns one page of matching products and the unpaged total.
	Search(ctx context.Context, query domain.ProductQuery) (*domain.SearchResult, error)

	// Categories returns the distinct non-empty product categories, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Keywords returns the distinct indexed keywords, sorted.
	Keywords(ctx context.Context) ([]string, error)

	// CategoryOffers returns products with a positive amount in the coverage
	// category, largest total amount first.
	CategoryOffers(ctx context.Context, category string, companyType domain.CompanyType) ([]domain.CategoryOffer, error)

	// RankingRows returns every product joined with its company and its most
	// recent score snapshot. Products without a snapshot have a nil Score.
	RankingRows(ctx context.Context, companyType domain.CompanyType) ([]domain.RankedProduct, error)

	// DuplicateGroups returns every (company, title) group with more than one
	// product. Members are ordered by updated_at then id, newest first.
	DuplicateGroups(ctx context.Context) ([]domain.DuplicateGroup, error)

	// Delete removes a product, cascading to its child rows and snapshots.
	// Returns domain.ErrNotFound if the product does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByFile removes every product extracted from the file path.
	DeleteByFile(ctx context.Context, filePath string) (int, error)

	// DeleteAll removes every product.
	DeleteAll(ctx context.Context) (int, error)
}
