package predict

import (
	"fmt"
	"time"
)

// Training modes recorded on an artifact.
const (
	ModeHistorical = "historical"
	ModeSynthetic  = "synthetic"
)

// ArtifactVersion is bumped when the serialized layout changes.
const ArtifactVersion = 1

// Artifact is the paired trained model and feature scaler, persisted and
// loaded as a single unit. FeatureOrder is part of the contract: the model
// and scaler are only meaningful against vectors laid out in exactly this
// sequence, fixed at training time.
type Artifact struct {
	Version      int         `json:"version"`
	Mode         string      `json:"mode"`
	FeatureOrder []string    `json:"feature_order"`
	Model        *Regression `json:"model"`
	Scaler       *Scaler     `json:"scaler"`
	Samples      int         `json:"samples"`
	TrainedAt    time.Time   `json:"trained_at"`
}

// Validate checks internal consistency after load.
func (a *Artifact) Validate() error {
	switch {
	case a == nil:
		return fmt.Errorf("%w: nil artifact", ErrInvalidArtifact)
	case a.Model == nil || a.Scaler == nil:
		return fmt.Errorf("%w: model and scaler must be present together", ErrInvalidArtifact)
	case len(a.FeatureOrder) == 0:
		return fmt.Errorf("%w: missing feature order", ErrInvalidArtifact)
	case len(a.Model.Weights) != len(a.FeatureOrder):
		return fmt.Errorf("%w: model width %d does not match feature order %d",
			ErrInvalidArtifact, len(a.Model.Weights), len(a.FeatureOrder))
	case len(a.Scaler.Means) != len(a.FeatureOrder) || len(a.Scaler.Stds) != len(a.FeatureOrder):
		return fmt.Errorf("%w: scaler width does not match feature order", ErrInvalidArtifact)
	}
	return nil
}
