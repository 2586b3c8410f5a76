package feature

import "errors"

// Sentinel kinds for feature extraction errors.
var (
	// ErrParse marks a malformed timestamp or location component. The
	// extractor never substitutes a guessed bucket for bad input.
	ErrParse = errors.New("feature parse failed")
)
