package mcp

import (
	"github.com/custodia-labs/covrank/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls into.
type Ports struct {
	Ranking driving.RankingService
	Score   driving.ScoreService

	// Optional. Tools and resources backed by a nil port report
	// ErrServiceUnavailable.
	Duplicates driving.DuplicateService
	Products   driving.ProductService
	Compare    driving.CompareService
	Companies  driving.CompanyService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Ranking == nil {
		return ErrMissingRankingService
	}
	if p.Score == nil {
		return ErrMissingScoreService
	}
	return nil
}
