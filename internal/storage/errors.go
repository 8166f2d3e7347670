package storage

import "errors"

var (
	// ErrNotFound is returned when no record matches, e.g. a season without a build run.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a batch repeats a stored key. Stores are
	// append-only: a season is ingested or built once per input.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned for nil records or a missing run id.
	ErrInvalidInput = errors.New("invalid input")
)
