package repository

import "errors"

// Sentinel kinds for catalog source errors.
var (
	ErrUnknownDriver = errors.New("unknown catalog driver")
	ErrMissingColumn = errors.New("missing catalog column")
	ErrInvalidTable  = errors.New("invalid catalog table name")
	ErrClosed        = errors.New("catalog source closed")
)
