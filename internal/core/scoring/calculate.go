package scoring

import "github.com/custodia-labs/covrank/internal/core/domain"

// Input is everything the calculators read for one product.
type Input struct {
	Premium        *float64
	Amounts        []domain.CoverageAmount
	Conditions     []domain.SpecialCondition
	StructuredData *domain.StructuredData
}

// Breakdown is a computed score. Total is the sum of the three parts.
type Breakdown struct {
	Coverage         float64
	Premium          float64
	SpecialCondition float64
	Total            float64
}

// Calculate runs the three calculators and sums them.
func Calculate(in Input) Breakdown {
	b := Breakdown{
		Coverage:         CoverageScore(in.Amounts),
		Premium:          PremiumScore(in.Premium, in.Amounts, in.StructuredData),
		SpecialCondition: SpecialConditionScore(in.Conditions, in.StructuredData),
	}
	b.Total = b.Coverage + b.Premium + b.SpecialCondition
	return b
}

// InputFor builds calculator input from stored product details.
// The product's own premium column wins over the structured data.
func InputFor(d *domain.ProductDetails) Input {
	premium := d.Product.PremiumAmount
	if premium == nil && d.StructuredData != nil {
		premium = d.StructuredData.PremiumAmount
	}
	sd := d.StructuredData
	if sd == nil && d.Product.CoveragePeriod != nil {
		sd = &domain.StructuredData{CoveragePeriod: d.Product.CoveragePeriod}
	}
	return Input{
		Premium:        premium,
		Amounts:        d.Amounts,
		Conditions:     d.Conditions,
		StructuredData: sd,
	}
}
