package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/logger"
)

// loadDetails reads a product, its child rows and its structured data.
// Malformed structured data is logged and treated as absent.
func loadDetails(ctx context.Context, products driven.ProductStore, id int64) (*domain.ProductDetails, error) {
	p, err := products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	amounts, err := products.Amounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load coverage amounts: %w", err)
	}

	conditions, err := products.Conditions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load special conditions: %w", err)
	}

	sd, err := domain.ParseStructuredData(p.StructuredDataJSON)
	if err != nil {
		logger.Warn("Product %d has malformed structured data, scoring without it: %v", id, err)
		sd = nil
	}

	return &domain.ProductDetails{
		Product:        *p,
		Amounts:        amounts,
		Conditions:     conditions,
		StructuredData: sd,
	}, nil
}
