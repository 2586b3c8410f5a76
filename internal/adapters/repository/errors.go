package repository

import "errors"

// Sentinel kinds for artifact store errors.
var (
	ErrNotFound = errors.New("artifact not found")
	ErrCorrupt  = errors.New("artifact corrupt")
)
