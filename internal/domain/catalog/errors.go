package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrEmptyCatalog   = errors.New("empty catalog")
	ErrInvalidPosting = errors.New("invalid job posting")
)
