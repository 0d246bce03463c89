package storage

import "errors"

// Shared store errors.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when appending a trade event whose
	// uniqueness key already exists. Events are append-only; holdings and
	// ledger entries upsert instead.
	ErrDuplicateKey = errors.New("duplicate key: event already recorded")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
