package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrStorage indicates the backing store failed to persist or load data.
	// Callers receive it wrapped around the adapter error.
	ErrStorage = errors.New("storage failure")

	// ErrTooFewProducts indicates a comparison was requested with fewer than
	// two existing products.
	ErrTooFewProducts = errors.New("at least two products are required")
)
