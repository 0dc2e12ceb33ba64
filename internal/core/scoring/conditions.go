package scoring

import (
	"strings"

	"github.com/custodia-labs/covrank/internal/core/domain"
)

// Special condition score caps.
const (
	MaxSpecialConditionScore = 20.0
	maxQualityPoints         = 12.0
)

var conditionCountPoints = []tier{
	{10, 8},
	{8, 7},
	{6, 6},
	{4, 5},
	{3, 4},
	{2, 3},
}

// qualityKeywords are matched against each condition's name and detail.
// Each keyword counts at most once per product.
var qualityKeywords = []struct {
	keyword string
	weight  float64
}{
	{"면제", 3},
	{"무해지", 3},
	{"자동갱신", 2},
	{"환급", 2},
	{"적립", 2},
	{"추가보장", 2},
	{"특약", 1.5},
	{"확대보장", 1.5},
	{"보장확대", 1.5},
	{"간병", 1.5},
	{"치매", 1.5},
	{"재활", 1},
	{"통원", 1},
	{"내원", 1},
	{"할인", 0.5},
	{"보너스", 0.5},
	{"프리미엄", 0.5},
	{"리워드", 0.5},
}

// QualityScore sums the weights of distinct quality keywords found in the
// conditions, capped at 12.
func QualityScore(conditions []domain.SpecialCondition) float64 {
	texts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		texts = append(texts, strings.ToLower(c.Name+" "+c.Detail))
	}

	var quality float64
	for _, k := range qualityKeywords {
		for _, text := range texts {
			if strings.Contains(text, k.keyword) {
				quality += k.weight
				break
			}
		}
	}
	return min(quality, maxQualityPoints)
}

// SpecialConditionScore scores riders and conditions in [0, 20].
// The structured data is accepted for future rules and currently unused.
func SpecialConditionScore(conditions []domain.SpecialCondition, _ *domain.StructuredData) float64 {
	if len(conditions) == 0 {
		return 0
	}
	count := ladder(conditionCountPoints, float64(len(conditions)), 2)
	return clamp(count+QualityScore(conditions), 0, MaxSpecialConditionScore)
}
