package predict

import "errors"

// Sentinel kinds for prediction and training errors.
var (
	// ErrNoArtifact means no trained model is loaded; the predictor
	// recovers through the rule-based fallback.
	ErrNoArtifact = errors.New("no model artifact loaded")

	// ErrShapeMismatch means a vector's width disagrees with what the
	// model or scaler was fitted against.
	ErrShapeMismatch = errors.New("feature vector shape mismatch")

	// ErrSingularSystem means the training system could not be solved.
	ErrSingularSystem = errors.New("singular training system")

	// ErrInvalidArtifact marks a loaded artifact that fails validation.
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// ErrInsufficientData is the non-fatal signal that training was
	// skipped for lack of samples.
	ErrInsufficientData = errors.New("insufficient training data")
)
