package scoring

import "errors"

// Sentinel kinds for scoring errors. Both are structural: callers should fix
// their input or setup rather than retry.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrVectorizerMismatch = errors.New("vectorizer mismatch")
)
