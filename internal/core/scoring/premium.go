package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// Premium score caps.
const (
	MaxPremiumScore = 40.0

	// NeutralPremiumScore is awarded when premium or coverage is unknown,
	// so incomplete extractions are not ranked below complete ones.
	NeutralPremiumScore = 20.0
)

// ratioPoints maps won of coverage per won of premium to points.
var ratioPoints = []tier{
	{3000, 25},
	{2500, 24},
	{2000, 23},
	{1800, 22},
	{1500, 21},
	{1200, 20},
	{1000, 19},
	{900, 18},
	{800, 17},
	{700, 16},
	{600, 15},
	{500, 14},
	{450, 13},
	{400, 12},
	{350, 11},
	{300, 10},
	{250, 9},
	{200, 8},
	{180, 7},
	{150, 6},
	{120, 5},
	{100, 4},
	{80, 3},
	{50, 2},
	{30, 1},
}

// affordabilityPoints rewards low absolute premiums.
var affordabilityPoints = []ceiling{
	{30_000, 10},
	{50_000, 9.5},
	{70_000, 9},
	{100_000, 8},
	{120_000, 7},
	{150_000, 6},
	{180_000, 5},
	{200_000, 4},
	{250_000, 3},
	{300_000, 2},
	{400_000, 1},
}

// agePeriods matches coverage-to-age terms, longest first.
var agePeriods = []struct {
	terms  []string
	points float64
}{
	{[]string{"평생", "종신", "100세", "무기한"}, 5},
	{[]string{"95세", "90세"}, 4.5},
	{[]string{"85세", "88세"}, 4},
	{[]string{"80세", "82세"}, 3.5},
	{[]string{"75세", "77세"}, 3},
	{[]string{"70세", "72세"}, 2.5},
	{[]string{"65세", "67세"}, 2},
	{[]string{"60세", "62세"}, 1.5},
}

// yearPeriodPoints maps a plain year count to points.
var yearPeriodPoints = []tier{
	{40, 4},
	{30, 3.5},
	{25, 3},
	{20, 2.5},
	{15, 2},
	{10, 1.5},
	{5, 1},
}

var yearsPattern = regexp.MustCompile(`(\d+)년`)

// PeriodScore scores a coverage period text in [0, 5]. Unrecognised text scores 0.
func PeriodScore(period string) float64 {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		return 0
	}

	for _, a := range agePeriods {
		for _, term := range a.terms {
			if strings.Contains(p, term) {
				return a.points
			}
		}
	}

	m := yearsPattern.FindStringSubmatch(p)
	if m == nil {
		return 0
	}
	years, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return ladder(yearPeriodPoints, years, 0.5)
}

// PremiumScore scores value for money in [0, 40]. A missing or non-positive
// premium, or zero total coverage, yields NeutralPremiumScore.
func PremiumScore(premium *float64, amounts []domain.CoverageAmount, data *domain.StructuredData) float64 {
	if premium == nil || *premium <= 0 {
		return NeutralPremiumScore
	}
	total := TotalCoverage(amounts)
	if total <= 0 {
		return NeutralPremiumScore
	}

	score := ladder(ratioPoints, total / *premium, 0.5) +
		ladderAtMost(affordabilityPoints, *premium, 0.5) +
		PeriodScore(data.Period())

	return clamp(score, 0, MaxPremiumScore)
}
