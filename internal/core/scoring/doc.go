// Package scoring turns a product's coverage amounts, premium and special
// conditions into a comparable 0-100 score.
//
// The score has three parts:
//
//   - Coverage (0-40): weighted per-category amounts, a diversity bonus and
//     a total-coverage ladder
//   - Premium (0-40): coverage per won of premium, affordability and the
//     length of the coverage period
//   - Special conditions (0-20): condition count and quality keywords
//
// Every function here is pure. The thresholds are part of the scoring
// contract; changing one changes rank order.
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: ports, services, adapters
package scoring
