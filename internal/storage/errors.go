package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists. Fact and assignment tables are
	// immutable; derived metric tables are replaced per season, not
	// updated row by row.
	ErrDuplicateKey = errors.New("duplicate key: records are immutable once written")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
