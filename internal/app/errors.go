package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrInvalidInput marks missing or malformed request fields; it maps
	// to a client error, never a retry.
	ErrInvalidInput = errors.New("invalid input")
)
