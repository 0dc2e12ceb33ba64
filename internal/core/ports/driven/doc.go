// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ProductStore: Product, coverage amount and special condition persistence
//   - CompanyStore: Insurer persistence, unique by name and type
//   - ScoreStore: Score snapshot persistence
//   - ConfigStore: Application configuration
//
// Both the SQLite and in-memory adapters implement every store.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
