package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Product is one insurance product extracted from one brochure page.
// Products are owned by their company; deleting one cascades to its
// coverage amounts, special conditions and score snapshots.
type Product struct {
	// ID is the store-assigned identifier.
	ID int64 `json:"id"`

	// CompanyID references the owning company.
	CompanyID int64 `json:"companyId"`

	// CompanyName and CompanyType are denormalised from the company on read.
	CompanyName string      `json:"companyName,omitempty"`
	CompanyType CompanyType `json:"companyType,omitempty"`

	// Title is the product name as printed in the brochure.
	Title string `json:"title"`

	// Content is the free text extracted for the product.
	Content string `json:"content"`

	// Keywords is a comma-separated keyword list.
	Keywords string `json:"keywords"`

	// Category is derived from the source file name, if it matched.
	Category *string `json:"category,omitempty"`

	// Source file identity.
	FilePath    string     `json:"filePath"`
	FileName    string     `json:"fileName"`
	FileHash    string     `json:"fileHash"`
	FileModTime *time.Time `json:"fileModTime,omitempty"`

	// PremiumAmount is the headline monthly premium in won.
	PremiumAmount *float64 `json:"premiumAmount,omitempty"`

	// CoveragePeriod is the free-text coverage period, e.g. "100세" or "20년".
	CoveragePeriod *string `json:"coveragePeriod,omitempty"`

	// StructuredDataJSON is the raw structured-data blob as stored.
	// It may be empty or malformed; use ParseStructuredData to read it.
	StructuredDataJSON string `json:"structuredData,omitempty"`

	// Version increments on every update.
	Version int `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// KeywordList splits the comma-separated keywords, dropping blanks.
func (p *Product) KeywordList() []string {
	return SplitKeywords(p.Keywords)
}

// SplitKeywords splits a comma-separated keyword list, trimming whitespace
// and dropping empty entries.
func SplitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// CoverageAmount is a benefit category and amount attached to a product.
// A product may carry several rows for the same category.
type CoverageAmount struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Condition *string `json:"condition,omitempty"`
}

// SpecialCondition is a rider or condition attached to a product.
type SpecialCondition struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Detail    string `json:"detail"`
}

// MaxConditionNameLength is the rune length special condition names are truncated to.
const MaxConditionNameLength = 100

// NewSpecialCondition builds a condition from its full text: the name is the
// first MaxConditionNameLength runes, the detail keeps the whole text.
func NewSpecialCondition(text string) SpecialCondition {
	name := text
	if r := []rune(text); len(r) > MaxConditionNameLength {
		name = string(r[:MaxConditionNameLength])
	}
	return SpecialCondition{Name: name, Detail: text}
}

// ExtractedAmount is one coverage amount as produced by the extraction service.
type ExtractedAmount struct {
	Category  string  `json:"category" validate:"required"`
	Amount    float64 `json:"amount"`
	Condition *string `json:"condition,omitempty"`
}

// StructuredData is the typed form of the structured-data blob. Every field
// is optional.
type StructuredData struct {
	PremiumAmount     *float64          `json:"premiumAmount,omitempty"`
	CoveragePeriod    *string           `json:"coveragePeriod,omitempty"`
	PaymentPeriod     *string           `json:"paymentPeriod,omitempty"`
	RenewalType       *string           `json:"renewalType,omitempty"`
	MainContractType  *string           `json:"mainContractType,omitempty"`
	HasWaiver         *bool             `json:"hasWaiver,omitempty"`
	WaiverDescription *string           `json:"waiverDescription,omitempty"`
	CoverageAmounts   []ExtractedAmount `json:"coverageAmounts,omitempty" validate:"dive"`
	SpecialConditions []string          `json:"specialConditions,omitempty"`
}

// Period returns the coverage period text, or "" when absent.
// It is safe to call on a nil receiver.
func (s *StructuredData) Period() string {
	if s == nil || s.CoveragePeriod == nil {
		return ""
	}
	return *s.CoveragePeriod
}

// ParseStructuredData decodes a stored blob. An empty blob yields (nil, nil).
func ParseStructuredData(raw string) (*StructuredData, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var sd StructuredData
	if err := json.Unmarshal([]byte(raw), &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

// Encode returns the JSON form stored alongside the product.
func (s *StructuredData) Encode() (string, error) {
	if s == nil {
		return "", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Amounts converts the extracted amounts to coverage amount rows.
func (s *StructuredData) Amounts() []CoverageAmount {
	if s == nil {
		return nil
	}
	out := make([]CoverageAmount, 0, len(s.CoverageAmounts))
	for _, a := range s.CoverageAmounts {
		out = append(out, CoverageAmount{
			Category:  a.Category,
			Amount:    a.Amount,
			Condition: a.Condition,
		})
	}
	return out
}

// Conditions converts the extracted special conditions to rows.
func (s *StructuredData) Conditions() []SpecialCondition {
	if s == nil {
		return nil
	}
	out := make([]SpecialCondition, 0, len(s.SpecialConditions))
	for _, c := range s.SpecialConditions {
		if strings.TrimSpace(c) == "" {
			continue
		}
		out = append(out, NewSpecialCondition(c))
	}
	return out
}

// ProductDetails is a product together with its child rows.
type ProductDetails struct {
	Product        Product            `json:"product"`
	Amounts        []CoverageAmount   `json:"coverageAmounts"`
	Conditions     []SpecialCondition `json:"specialConditions"`
	StructuredData *StructuredData    `json:"structuredData,omitempty"`
}

// ProductQuery filters product searches.
type ProductQuery struct {
	// Text matches title, content and keywords.
	Text string

	// CompanyType restricts to one insurer type. Empty means all.
	CompanyType CompanyType

	CompanyIDs []int64
	Categories []string
	Keywords   []string

	// Limit caps the page size; 0 means unlimited.
	Limit  int
	Offset int
}

// SearchResult is one page of products with the unpaged total.
type SearchResult struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"totalCount"`
}

// CompanyProducts groups the products of one company.
type CompanyProducts struct {
	CompanyName string      `json:"companyName"`
	CompanyType CompanyType `json:"companyType"`
	Products    []Product   `json:"products"`
}

// CategoryOffer is a product's total amount in one coverage category.
type CategoryOffer struct {
	Product  Product `json:"product"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}
