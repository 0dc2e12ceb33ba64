package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
	"github.com/custodia-labs/covrank/internal/logger"
)

// Ensure DuplicateService implements the interface.
var _ driving.DuplicateService = (*DuplicateService)(nil)

// DuplicateService removes products sharing company and title, keeping the
// most recently updated one.
type DuplicateService struct {
	products driven.ProductStore
	locks    *ProductLocks
}

// NewDuplicateService creates a new duplicate service. Locks must be the
// ones given to the score service.
func NewDuplicateService(products driven.ProductStore, locks *ProductLocks) *DuplicateService {
	if locks == nil {
		locks = NewProductLocks()
	}
	return &DuplicateService{
		products: products,
		locks:    locks,
	}
}

// RemoveDuplicates keeps the newest product of every group and deletes the rest.
// A failing group is logged and skipped; DeletedCount only counts products
// that were actually removed.
func (s *DuplicateService) RemoveDuplicates(ctx context.Context) (*domain.DedupReport, error) {
	logger.Section("Duplicate Removal")

	groups, err := s.products.DuplicateGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("find duplicate groups: %w", err)
	}

	report := &domain.DedupReport{
		DeletedIDs:          []int64{},
		DuplicateGroupCount: len(groups),
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		deleted, err := s.resolveGroup(ctx, g)
		report.DeletedIDs = append(report.DeletedIDs, deleted...)
		if err != nil {
			logger.Error("Duplicate group %q (company %d) failed after %d deletions: %v",
				g.Title, g.CompanyID, len(deleted), err)
			continue
		}
		logger.Debug("Kept product %d for %q, removed %v", g.KeepID(), g.Title, deleted)
	}

	report.DeletedCount = len(report.DeletedIDs)
	logger.Info("Removed %d duplicates across %d groups", report.DeletedCount, report.DuplicateGroupCount)

	return report, nil
}

// resolveGroup deletes every member except the newest. Members already gone
// are skipped.
func (s *DuplicateService) resolveGroup(ctx context.Context, g domain.DuplicateGroup) ([]int64, error) {
	var deleted []int64
	for _, id := range g.Removals() {
		unlock := s.locks.Lock(id)
		err := s.products.Delete(ctx, id)
		unlock()

		switch {
		case errors.Is(err, domain.ErrNotFound):
			continue
		case err != nil:
			return deleted, fmt.Errorf("delete product %d: %w", id, err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}
