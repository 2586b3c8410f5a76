// Package repository persists model artifacts. The model and its scaler
// travel as one document: loading or saving them independently is not
// expressible through this interface.
package repository

import (
	"context"

	"github.com/okian/givematch/internal/domain/predict"
)

// Store provides read/write access to the persisted artifact.
type Store interface {
	// Load reads the current artifact. Returns ErrNotFound when no
	// artifact has been persisted yet.
	Load(ctx context.Context) (*predict.Artifact, error)

	// Save persists the artifact atomically; a reader never observes a
	// partially written document.
	Save(ctx context.Context, a *predict.Artifact) error
}
