package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is returned when source records lack an expected field
	// or cannot be classified. It fails the whole pipeline invocation.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidSeason is returned for season identifiers not shaped like "2021-22".
	ErrInvalidSeason = errors.New("invalid season")
)

func schemaErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrSchemaMismatch}, args...)...)
}
