package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoSource   = errors.New("no catalog source configured")
	ErrBatchSize  = errors.New("invalid batch size")
)
