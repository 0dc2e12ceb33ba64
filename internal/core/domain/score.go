package domain

import "time"

// ScoreSnapshot is a persisted score for one product. Several snapshots may
// exist per product; the most recent one is authoritative.
//
// TotalScore equals the sum of the three sub-scores at write time.
type ScoreSnapshot struct {
	ID                    int64     `json:"-"`
	ProductID             int64     `json:"productId"`
	CoverageScore         float64   `json:"coverageScore"`
	PremiumScore          float64   `json:"premiumScore"`
	SpecialConditionScore float64   `json:"specialConditionScore"`
	TotalScore            float64   `json:"totalScore"`
	CalculatedAt          time.Time `json:"calculatedAt"`
}

// RankedProduct is a product with its latest score, or nil when unscored.
type RankedProduct struct {
	Product Product        `json:"product"`
	Score   *ScoreSnapshot `json:"score,omitempty"`
}

// IsScored reports whether the product has a score.
func (r RankedProduct) IsScored() bool {
	return r.Score != nil
}

// Ranking is an ordered product list. TotalCount counts every distinct
// product before the limit; DisplayedCount is len(Products).
type Ranking struct {
	Products       []RankedProduct `json:"products"`
	TotalCount     int             `json:"totalCount"`
	DisplayedCount int             `json:"displayedCount"`
}

// RankingOptions filter and cap a ranking.
type RankingOptions struct {
	// CompanyType restricts to one insurer type. Empty means all.
	CompanyType CompanyType

	// Limit caps the result; 0 or less means unlimited.
	Limit int
}

// DuplicateGroup is a set of products sharing company and title.
// Members are ordered newest first, so KeepID is ProductIDs[0].
type DuplicateGroup struct {
	CompanyID  int64
	Title      string
	ProductIDs []int64
}

// KeepID returns the product retained when the group is resolved.
func (g DuplicateGroup) KeepID() int64 {
	if len(g.ProductIDs) == 0 {
		return 0
	}
	return g.ProductIDs[0]
}

// Removals returns the products deleted when the group is resolved.
func (g DuplicateGroup) Removals() []int64 {
	if len(g.ProductIDs) < 2 {
		return nil
	}
	return g.ProductIDs[1:]
}

// DedupReport summarises a duplicate removal run.
type DedupReport struct {
	DeletedCount        int     `json:"deletedCount"`
	DeletedIDs          []int64 `json:"deletedIds"`
	DuplicateGroupCount int     `json:"duplicateGroupCount"`
}

// ProductComparison is one column of a side-by-side comparison.
type ProductComparison struct {
	Details ProductDetails `json:"details"`
	Score   *ScoreSnapshot `json:"score,omitempty"`
}
