package scoring

import (
	"fmt"
	"math"
)

// Default ranking parameters.
const (
	DefaultTopN  = 5
	DefaultAlpha = 0.6
)

// Params controls one ranking call.
type Params struct {
	// TopN is the maximum number of distinct roles returned.
	TopN int
	// Alpha weights content similarity against popularity.
	Alpha float64
}

// DefaultParams returns TopN=5, Alpha=0.6.
func DefaultParams() Params {
	return Params{TopN: DefaultTopN, Alpha: DefaultAlpha}
}

// Validate rejects non-positive TopN and Alpha outside [0,1].
func (p Params) Validate() error {
	if p.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d: %w", p.TopN, ErrInvalidInput)
	}
	if math.IsNaN(p.Alpha) || p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("alpha must be within [0,1], got %v: %w", p.Alpha, ErrInvalidInput)
	}
	return nil
}

// Option applies a ranking parameter. Values are not clamped; Validate
// reports out-of-range values.
type Option func(*Params)

// WithTopN sets the maximum number of roles.
func WithTopN(n int) Option {
	return func(p *Params) { p.TopN = n }
}

// WithAlpha sets the content-similarity weight.
func WithAlpha(alpha float64) Option {
	return func(p *Params) { p.Alpha = alpha }
}

// WithParams replaces all parameters at once.
func WithParams(params Params) Option {
	return func(p *Params) { *p = params }
}

func buildParams(opts []Option) Params {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
