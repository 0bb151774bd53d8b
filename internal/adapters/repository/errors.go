package repository

import "errors"

// Sentinel kinds for cellar errors.
var (
	ErrNotFound = errors.New("bottle not found")
)
