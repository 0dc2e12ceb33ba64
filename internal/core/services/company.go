package services

import (
	"context"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
)

// Ensure CompanyService implements the interface.
var _ driving.CompanyService = (*CompanyService)(nil)

// CompanyService lists insurers.
type CompanyService struct {
	companies driven.CompanyStore
}

// NewCompanyService creates a new company service.
func NewCompanyService(companies driven.CompanyStore) *CompanyService {
	return &CompanyService{companies: companies}
}

// List returns companies ordered by name.
func (s *CompanyService) List(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error) {
	return s.companies.List(ctx, companyType)
}
