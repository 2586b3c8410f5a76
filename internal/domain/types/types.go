// Package types contains the read shapes shared between the service and
// its transports.
package types

// Training statuses reported to callers.
const (
	StatusTrainingCompleted = "training_completed"
	StatusTrainingSkipped   = "skipped_insufficient_data"
)

// Match is one ranked recipient.
type Match struct {
	RecipientID string             `json:"recipient_id"`
	Score       float64            `json:"score"`
	Factors     map[string]float64 `json:"factors"`
}

// MatchResult is the ranked, truncated response for one donor.
type MatchResult struct {
	Matches          []Match `json:"matches"`
	TotalAvailable   int     `json:"total_available"`
	Skipped          int     `json:"skipped,omitempty"`
	AlgorithmVersion string  `json:"algorithm_version"`
}

// TrainOutcome reports whether a training request refit the model.
type TrainOutcome struct {
	Status  string `json:"status"`
	Samples int    `json:"samples"`
}

// Prediction is a single-value score with its provenance.
type Prediction struct {
	Score          float64 `json:"score"`
	Source         string  `json:"source"`
	FallbackReason string  `json:"fallback_reason,omitempty"`
}

// FraudVerdict is the fraud analysis response.
type FraudVerdict struct {
	Score      int      `json:"score"`
	Risk       string   `json:"risk"`
	Action     string   `json:"action"`
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
}
