package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrEmptyProfile   = errors.New("empty factor profile")
	ErrInvalidWeights = errors.New("invalid factor weights")
)
