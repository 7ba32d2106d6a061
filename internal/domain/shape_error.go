package domain

import "fmt"

// ShapeError reports a structurally invalid input row: a missing
// required field or a reference to an unknown player/user. It indicates
// an upstream contract violation and is always propagated to the
// caller, never silently dropped.
type ShapeError struct {
	Table  string // input relation the row came from
	Key    string // identifying key of the offending row
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid %s row %s: %s", e.Table, e.Key, e.Reason)
}

// NewShapeError creates a ShapeError for the given table and row key.
func NewShapeError(table, key, reason string) *ShapeError {
	return &ShapeError{Table: table, Key: key, Reason: reason}
}
