package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
	"github.com/custodia-labs/covrank/internal/logger"
)

// Ensure RankingService implements the interface.
var _ driving.RankingService = (*RankingService)(nil)

// scoreTolerance treats totals this close as equal.
const scoreTolerance = 0.01

// RankingService orders products by their latest total score.
type RankingService struct {
	products driven.ProductStore
	scorer   driving.ScoreService
}

// NewRankingService creates a new ranking service.
func NewRankingService(products driven.ProductStore, scorer driving.ScoreService) *RankingService {
	return &RankingService{
		products: products,
		scorer:   scorer,
	}
}

// Ranking returns scored products first, then unscored ones.
func (s *RankingService) Ranking(ctx context.Context, opts domain.RankingOptions) (*domain.Ranking, error) {
	logger.Section("Ranking")

	rows, err := s.products.RankingRows(ctx, opts.CompanyType)
	if err != nil {
		return nil, fmt.Errorf("load ranking rows: %w", err)
	}
	logger.Debug("Loaded %d rows (company type %q)", len(rows), opts.CompanyType)

	computed := make(map[int64]*domain.ScoreSnapshot)
	failed := make(map[int64]bool)
	for i := range rows {
		if rows[i].Score != nil {
			continue
		}
		id := rows[i].Product.ID
		if snap, ok := computed[id]; ok {
			rows[i].Score = snap
			continue
		}
		if failed[id] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snap, err := s.scorer.ComputeScore(ctx, id)
		if err != nil {
			logger.Warn("Could not score product %d, ranking it as unscored: %v", id, err)
			failed[id] = true
			continue
		}
		computed[id] = snap
		rows[i].Score = snap
	}
	if len(computed) > 0 {
		logger.Info("Computed %d missing scores", len(computed))
	}

	ranking := assembleRanking(rows, opts.Limit)
	logger.Info("Ranking: %d products, %d displayed", ranking.TotalCount, ranking.DisplayedCount)

	return ranking, nil
}

// assembleRanking orders rows: scored by total descending with recency
// breaking ties, then unscored by recency. Duplicate ids keep their first
// occurrence and the limit applies last. A limit of 0 or less is unlimited.
func assembleRanking(rows []domain.RankedProduct, limit int) *domain.Ranking {
	var scored, unscored []domain.RankedProduct
	for _, r := range rows {
		if r.IsScored() {
			scored = append(scored, r)
		} else {
			unscored = append(unscored, r)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if diff := a.Score.TotalScore - b.Score.TotalScore; math.Abs(diff) > scoreTolerance {
			return diff > 0
		}
		return newerFirst(a.Product, b.Product)
	})
	sort.SliceStable(unscored, func(i, j int) bool {
		return newerFirst(unscored[i].Product, unscored[j].Product)
	})

	seen := make(map[int64]bool, len(rows))
	ordered := make([]domain.RankedProduct, 0, len(rows))
	for _, r := range append(scored, unscored...) {
		if seen[r.Product.ID] {
			continue
		}
		seen[r.Product.ID] = true
		ordered = append(ordered, r)
	}

	total := len(ordered)
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}

	return &domain.Ranking{
		Products:       ordered,
		TotalCount:     total,
		DisplayedCount: len(ordered),
	}
}

func newerFirst(a, b domain.Product) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID > b.ID
}
