package memory

import "errors"

var (
	// ErrInvalidInput is returned by Add for empty or whitespace-only
	// content and for unknown significance types.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by lookups when the id is absent from every
	// pool.
	ErrNotFound = errors.New("block not found")
)
