package table

import "errors"

var (
	// ErrOutOfRange is returned when a row or column index is invalid.
	ErrOutOfRange = errors.New("index out of range")

	// ErrUnknownColumn is returned when a column name is not in the schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoMatch is returned when no row satisfies an edit's lookup.
	ErrNoMatch = errors.New("no matching row")

	// ErrInvalidSnapshot is returned when a snapshot schema or row is malformed.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
