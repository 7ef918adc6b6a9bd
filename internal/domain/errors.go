package domain

import "errors"

// Sentinel errors shared across the planner boundary.
var (
	// ErrInvalidInput marks business-rule validation failures. Callers can
	// errors.Is against it to map to a 400 at the HTTP layer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by repositories when a record doesn't exist.
	ErrNotFound = errors.New("not found")
)
