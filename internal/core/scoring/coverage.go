package scoring

import (
	"sort"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// Coverage score caps.
const (
	MaxCoverageScore      = 40.0
	maxCategoryPoints     = 5.0
	maxCategoryComponent  = 25.0
	defaultCategoryWeight = 1.0
)

// categoryWeights ranks benefit categories by importance.
var categoryWeights = map[string]float64{
	"암":  5,
	"사망": 5,

	"장애":  4,
	"뇌혈관": 4,
	"심장":  4,
	"치매":  4,

	"입원": 3,
	"수술": 3,
	"간병": 3,

	"상해":   2,
	"질병":   2,
	"당뇨":   2,
	"골절":   2,
	"교통사고": 2,
	"재가급여": 2,
	"방문요양": 2,

	"연금": 1,
}

// CategoryWeight returns the importance weight of a category. Unlisted
// categories weigh 1.
func CategoryWeight(category string) float64 {
	if w, ok := categoryWeights[category]; ok {
		return w
	}
	return defaultCategoryWeight
}

// amountMultiplier maps a per-category amount in won to a base multiplier.
var amountMultiplier = []tier{
	{200_000_000, 3.0},
	{100_000_000, 2.5},
	{50_000_000, 2.0},
	{30_000_000, 1.5},
	{10_000_000, 1.0},
	{5_000_000, 0.7},
	{1_000_000, 0.4},
}

// diversityBonus rewards breadth by distinct category count.
var diversityBonus = []tier{
	{10, 5},
	{8, 4},
	{6, 3},
	{4, 2},
	{2, 1},
}

// totalCoveragePoints maps the summed coverage in won to points.
var totalCoveragePoints = []tier{
	{1_000_000_000, 15},
	{700_000_000, 14},
	{500_000_000, 13},
	{400_000_000, 12},
	{300_000_000, 11},
	{250_000_000, 10},
	{200_000_000, 9},
	{150_000_000, 8},
	{100_000_000, 7},
	{80_000_000, 6},
	{50_000_000, 5},
	{30_000_000, 4},
	{20_000_000, 3},
	{10_000_000, 2},
	{5_000_000, 1.5},
}

// CategoryTotals sums positive amounts per category.
func CategoryTotals(amounts []domain.CoverageAmount) map[string]float64 {
	totals := make(map[string]float64)
	for _, a := range amounts {
		if a.Amount <= 0 {
			continue
		}
		totals[a.Category] += a.Amount
	}
	return totals
}

// TotalCoverage sums every positive amount across categories.
func TotalCoverage(amounts []domain.CoverageAmount) float64 {
	var total float64
	for _, a := range amounts {
		if a.Amount > 0 {
			total += a.Amount
		}
	}
	return total
}

// CoverageScore scores a product's coverage amounts in [0, 40].
func CoverageScore(amounts []domain.CoverageAmount) float64 {
	totals := CategoryTotals(amounts)
	if len(totals) == 0 {
		return 0
	}

	// Summation order is fixed so results are bit-for-bit reproducible.
	categories := make([]string, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var categoryScore float64
	for _, c := range categories {
		points := ladder(amountMultiplier, totals[c], 0.2) * CategoryWeight(c)
		categoryScore += min(points, maxCategoryPoints)
	}

	component := min(categoryScore+ladder(diversityBonus, float64(len(totals)), 0), maxCategoryComponent)

	if total := TotalCoverage(amounts); total > 0 {
		component += ladder(totalCoveragePoints, total, 0.5)
	}

	return clamp(component, 0, MaxCoverageScore)
}
