package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
	"github.com/custodia-labs/covrank/internal/logger"
)

// Ensure CompareService implements the interface.
var _ driving.CompareService = (*CompareService)(nil)

// CompareService puts products side by side.
type CompareService struct {
	products driven.ProductStore
	scorer   driving.ScoreService
}

// NewCompareService creates a new compare service.
func NewCompareService(products driven.ProductStore, scorer driving.ScoreService) *CompareService {
	return &CompareService{
		products: products,
		scorer:   scorer,
	}
}

// Compare returns details and scores for the products in the order given.
func (s *CompareService) Compare(ctx context.Context, ids []int64) ([]domain.ProductComparison, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("compare %d products: %w", len(ids), domain.ErrTooFewProducts)
	}

	out := make([]domain.ProductComparison, 0, len(ids))
	for _, id := range ids {
		details, err := loadDetails(ctx, s.products, id)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("Compare: product %d not found, skipping", id)
			continue
		}
		if err != nil {
			return nil, err
		}

		score, err := s.scorer.Ensure(ctx, id)
		if err != nil {
			logger.Warn("Compare: no score for product %d: %v", id, err)
			score = nil
		}
		out = append(out, domain.ProductComparison{Details: *details, Score: score})
	}

	if len(out) < 2 {
		return nil, fmt.Errorf("compare: only %d of %d products found: %w", len(out), len(ids), domain.ErrTooFewProducts)
	}
	return out, nil
}

// CompareByCategory returns products covering a category, largest amount first.
func (s *CompareService) CompareByCategory(ctx context.Context, category string, companyType domain.CompanyType) ([]domain.CategoryOffer, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	return s.products.CategoryOffers(ctx, category, companyType)
}
