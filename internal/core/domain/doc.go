// Package domain defines the core business entities for covrank.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Company: An insurer, unique by name and type
//   - Product: One insurance product extracted from one brochure page
//   - CoverageAmount: A benefit category and money amount attached to a product
//   - SpecialCondition: A rider or condition attached to a product
//   - ScoreSnapshot: A persisted, timestamped score breakdown for a product
//   - Ranking: Products ordered by their latest total score
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
