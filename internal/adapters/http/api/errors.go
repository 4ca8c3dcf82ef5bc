package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation failed")
	ErrBatchSize  = errors.New("invalid batch size")
)

// kindError tags an error with the operation and a sentinel kind so that
// errors.Is matches both the kind and the cause.
type kindError struct {
	op    string
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.cause)
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// WrapKind tags cause with op and kind.
func WrapKind(op string, kind, cause error) error {
	return &kindError{op: op, kind: kind, cause: cause}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}
