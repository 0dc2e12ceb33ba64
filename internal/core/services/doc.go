// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The score arithmetic itself lives in the scoring package; services load
// inputs, persist snapshots and decide which failures degrade and which
// surface to the caller.
package services
