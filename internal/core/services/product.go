package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
	"github.com/custodia-labs/covrank/internal/logger"
)

// Ensure ProductService implements the interface.
var _ driving.ProductService = (*ProductService)(nil)

// ProductService persists extracted products and serves product queries.
type ProductService struct {
	products  driven.ProductStore
	companies driven.CompanyStore
	scorer    driving.ScoreService
	locks     *ProductLocks
	validate  *validator.Validate
}

// NewProductService creates a new product service.
func NewProductService(
	products driven.ProductStore,
	companies driven.CompanyStore,
	scorer driving.ScoreService,
	locks *ProductLocks,
) *ProductService {
	if locks == nil {
		locks = NewProductLocks()
	}
	return &ProductService{
		products:  products,
		companies: companies,
		scorer:    scorer,
		locks:     locks,
		validate:  validator.New(),
	}
}

// Ingest replaces the products of one source file and scores each new product.
// Per-product failures are collected in the report; invalid requests write nothing.
func (s *ProductService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestReport, error) {
	if ct, err := domain.ParseCompanyType(string(req.CompanyType)); err == nil {
		req.CompanyType = ct
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	report := &domain.IngestReport{
		BatchID:    uuid.New().String(),
		ProductIDs: []int64{},
	}
	logger.Section("Ingest " + report.BatchID)
	logger.Info("File %s: %d extracted products from %s", req.File.Path, len(req.Products), req.CompanyName)

	company, err := s.companies.FindOrCreate(ctx, req.CompanyName, req.CompanyType)
	if err != nil {
		return nil, fmt.Errorf("resolve company %q: %w", req.CompanyName, err)
	}

	replaced, err := s.replaceFile(ctx, req.File.Path)
	if err != nil {
		return nil, err
	}
	report.Updated = replaced

	fileName := req.File.Name
	if fileName == "" {
		fileName = baseName(req.File.Path)
	}
	var category *string
	if c, ok := domain.CategoryFromFileName(fileName); ok {
		category = &c
	}

	for i, ep := range req.Products {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id, err := s.create(ctx, company, req.File, fileName, category, ep)
		if err != nil {
			logger.Warn("Product %d (%q) of %s not stored: %v", i, ep.Title, req.File.Path, err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", ep.Title, err))
			continue
		}
		report.Created++
		report.ProductIDs = append(report.ProductIDs, id)

		if _, err := s.scorer.ComputeScore(ctx, id); err != nil {
			logger.Warn("Product %d stored but not scored: %v", id, err)
		}
	}

	logger.Info("Batch %s: created=%d replaced=%d errors=%d",
		report.BatchID, report.Created, report.Updated, len(report.Errors))

	return report, nil
}

// replaceFile deletes the products previously extracted from the file.
func (s *ProductService) replaceFile(ctx context.Context, filePath string) (int, error) {
	existing, err := s.products.ListByFile(ctx, filePath)
	if err != nil {
		return 0, fmt.Errorf("list products of %s: %w", filePath, err)
	}
	if len(existing) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(existing))
	for _, p := range existing {
		ids = append(ids, p.ID)
	}
	unlock := s.locks.LockAll(ids)
	defer unlock()

	n, err := s.products.DeleteByFile(ctx, filePath)
	if err != nil {
		return 0, fmt.Errorf("replace products of %s: %w", filePath, err)
	}
	logger.Debug("Replaced %d products of %s", n, filePath)
	return n, nil
}

func (s *ProductService) create(
	ctx context.Context,
	company *domain.Company,
	file domain.SourceFile,
	fileName string,
	category *string,
	ep domain.ExtractedProduct,
) (int64, error) {
	sd := ep.StructuredData
	encoded, err := sd.Encode()
	if err != nil {
		return 0, fmt.Errorf("encode structured data: %w", err)
	}

	p := &domain.Product{
		CompanyID:          company.ID,
		CompanyName:        company.Name,
		CompanyType:        company.Type,
		Title:              strings.TrimSpace(ep.Title),
		Content:            ep.Content,
		Keywords:           strings.Join(domain.SplitKeywords(strings.Join(ep.Keywords, ",")), ","),
		Category:           category,
		FilePath:           file.Path,
		FileName:           fileName,
		FileHash:           file.Hash,
		FileModTime:        file.ModTime,
		StructuredDataJSON: encoded,
	}
	if sd != nil {
		p.PremiumAmount = sd.PremiumAmount
		p.CoveragePeriod = sd.CoveragePeriod
	}

	if err := s.products.Create(ctx, p, sd.Amounts(), sd.Conditions()); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Get returns a product with its child rows and parsed structured data.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.ProductDetails, error) {
	return loadDetails(ctx, s.products, id)
}

// Update applies a partial update and rescores the product.
func (s *ProductService) Update(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.ProductDetails, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if update.StructuredData != nil {
		if err := s.validate.Struct(update.StructuredData); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}

	unlock := s.locks.Lock(id)
	err := s.products.Update(ctx, id, update)
	unlock()
	if err != nil {
		return nil, err
	}

	if _, err := s.scorer.ComputeScore(ctx, id); err != nil {
		logger.Warn("Product %d updated but not rescored: %v", id, err)
	}

	return loadDetails(ctx, s.products, id)
}

// Search returns one page of matching products.
func (s *ProductService) Search(ctx context.Context, query domain.ProductQuery) (*domain.SearchResult, error) {
	query.Text = strings.TrimSpace(query.Text)
	if query.Limit < 0 {
		query.Limit = 0
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	logger.Debug("Product search: text=%q type=%q limit=%d offset=%d",
		query.Text, query.CompanyType, query.Limit, query.Offset)

	return s.products.Search(ctx, query)
}

// GroupedByCompany returns products grouped by company, ordered by company
// name then title.
func (s *ProductService) GroupedByCompany(ctx context.Context, companyType domain.CompanyType) ([]domain.CompanyProducts, error) {
	products, err := s.products.List(ctx, companyType)
	if err != nil {
		return nil, err
	}

	var groups []domain.CompanyProducts
	for _, p := range products {
		n := len(groups)
		if n == 0 || groups[n-1].CompanyName != p.CompanyName || groups[n-1].CompanyType != p.CompanyType {
			groups = append(groups, domain.CompanyProducts{
				CompanyName: p.CompanyName,
				CompanyType: p.CompanyType,
			})
			n++
		}
		groups[n-1].Products = append(groups[n-1].Products, p)
	}
	return groups, nil
}

// Categories returns the distinct product categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// Keywords returns the distinct indexed keywords.
func (s *ProductService) Keywords(ctx context.Context) ([]string, error) {
	return s.products.Keywords(ctx)
}

// Delete removes one product with its child rows and snapshots.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.products.Delete(ctx, id)
}

// DeleteAll removes every product.
func (s *ProductService) DeleteAll(ctx context.Context) (int, error) {
	n, err := s.products.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info("Deleted all %d products", n)
	return n, nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
