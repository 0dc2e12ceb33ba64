// Package mcp exposes ranking, scoring and product lookups over the
// Model Context Protocol so AI assistants can query the local catalogue.
package mcp

import "errors"

var (
	// ErrMissingRankingService is returned when the ranking service is not provided.
	ErrMissingRankingService = errors.New("mcp: ranking service is required")

	// ErrMissingScoreService is returned when the score service is not provided.
	ErrMissingScoreService = errors.New("mcp: score service is required")

	// ErrServiceUnavailable is returned by tools whose optional port is not set.
	ErrServiceUnavailable = errors.New("mcp: service not configured")
)
