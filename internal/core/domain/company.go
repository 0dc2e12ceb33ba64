package domain

import (
	"fmt"
	"strings"
	"time"
)

// CompanyType distinguishes life insurers from non-life (property and casualty) insurers.
type CompanyType string

// Available company types.
const (
	// CompanyTypeLife is a life insurer (생명보험).
	CompanyTypeLife CompanyType = "life"

	// CompanyTypeNonLife is a non-life insurer (손해보험).
	CompanyTypeNonLife CompanyType = "non-life"
)

// Korean labels used in brochure folders and the legacy data set.
const (
	lifeLabel    = "생명보험"
	nonLifeLabel = "손해보험"
)

// ParseCompanyType accepts the canonical values as well as the Korean labels.
// An empty string parses to the empty type, which means "no filter" for queries.
func ParseCompanyType(s string) (CompanyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(CompanyTypeLife), lifeLabel:
		return CompanyTypeLife, nil
	case string(CompanyTypeNonLife), "nonlife", "non_life", nonLifeLabel:
		return CompanyTypeNonLife, nil
	default:
		return "", fmt.Errorf("%w: unknown company type %q", ErrInvalidInput, s)
	}
}

// IsValid returns true if the company type is recognised.
func (t CompanyType) IsValid() bool {
	return t == CompanyTypeLife || t == CompanyTypeNonLife
}

// String returns the string representation.
func (t CompanyType) String() string {
	return string(t)
}

// Label returns the Korean display label.
func (t CompanyType) Label() string {
	switch t {
	case CompanyTypeLife:
		return lifeLabel
	case CompanyTypeNonLife:
		return nonLifeLabel
	default:
		return "전체"
	}
}

// Company is an insurer. Companies are unique by (Name, Type) and are looked
// up or created on demand during ingestion.
type Company struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      CompanyType `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
