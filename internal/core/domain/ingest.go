package domain

import (
	"strings"
	"time"
)

// SourceFile identifies the brochure a batch of products was extracted from.
type SourceFile struct {
	Path    string     `json:"path" validate:"required"`
	Name    string     `json:"name"`
	Hash    string     `json:"hash"`
	ModTime *time.Time `json:"modTime,omitempty"`
}

// ExtractedProduct is one product record returned by the extraction service.
type ExtractedProduct struct {
	Title          string          `json:"title" validate:"required"`
	Content        string          `json:"content"`
	Keywords       []string        `json:"keywords"`
	StructuredData *StructuredData `json:"structuredData,omitempty"`
}

// IngestRequest carries everything extracted from one file.
// Existing products for the same file path are replaced.
type IngestRequest struct {
	CompanyName string             `json:"companyName" validate:"required"`
	CompanyType CompanyType        `json:"companyType" validate:"required,oneof=life non-life"`
	File        SourceFile         `json:"file"`
	Products    []ExtractedProduct `json:"products" validate:"dive"`
}

// IngestReport summarises one ingestion call.
type IngestReport struct {
	BatchID    string   `json:"batchId"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Errors     []string `json:"errors,omitempty"`
	ProductIDs []int64  `json:"productIds"`
}

// ProductUpdate is a partial update. Nil fields are left unchanged.
// A non-nil StructuredData replaces the coverage amounts and special
// conditions wholesale.
type ProductUpdate struct {
	Title          *string
	Content        *string
	Keywords       *string
	Category       *string
	StructuredData *StructuredData
}

// categoryByFileName maps file name fragments to categories, first match wins.
var categoryByFileName = []struct {
	fragment string
	category string
}{
	{"사망보험금유동화", "사망보험금유동화"},
	{"간병치매플랜", "간병/치매"},
	{"당뇨보험", "당뇨"},
	{"영업방향", "영업자료"},
	{"영업이슈", "영업자료"},
	{"교안", "교육자료"},
	{"교육자료", "교육자료"},
	{"상품전략", "상품전략"},
	{"마케팅팩", "마케팅"},
	{"판매포인트", "판매자료"},
}

// CategoryFromFileName derives a product category from its source file name.
func CategoryFromFileName(name string) (string, bool) {
	for _, c := range categoryByFileName {
		if strings.Contains(name, c.fragment) {
			return c.category, true
		}
	}
	return "", false
}
