package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrMissingID  = errors.New("bottle id is required")
	ErrNotStarted = errors.New("service not started")
)
