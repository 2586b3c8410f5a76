package predict

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/model"
)

// minHistoricalSamples is the floor below which a training request is a
// no-op rather than an error.
const minHistoricalSamples = 10

// ArtifactStore persists artifacts. The trainer only needs the write side.
type ArtifactStore interface {
	Save(ctx context.Context, a *Artifact) error
}

// TrainerOption applies a configuration option to the Trainer.
type TrainerOption func(*Trainer)

// WithMinSamples overrides the historical-sample floor.
func WithMinSamples(n int) TrainerOption {
	return func(t *Trainer) {
		if n > 0 {
			t.minSamples = n
		}
	}
}

// WithSyntheticSamples sets how many samples a bootstrap generates.
func WithSyntheticSamples(n int) TrainerOption {
	return func(t *Trainer) {
		if n > 0 {
			t.syntheticN = n
		}
	}
}

// WithExtractor overrides the feature extractor used for historical
// vectors.
func WithExtractor(e *feature.Extractor) TrainerOption {
	return func(t *Trainer) {
		if e != nil {
			t.extractor = e
		}
	}
}

// WithClock overrides the training timestamp source.
func WithClock(now func() time.Time) TrainerOption {
	return func(t *Trainer) {
		if now != nil {
			t.now = now
		}
	}
}

// Trainer refits the model from historical outcomes or synthesizes a
// bootstrap dataset when no artifact exists yet. A successful fit is
// persisted first and only then swapped into the predictor, so a crash
// mid-training never leaves a half-written artifact loaded.
type Trainer struct {
	mu         sync.Mutex
	extractor  *feature.Extractor
	store      ArtifactStore
	predictor  *Predictor
	minSamples int
	syntheticN int
	now        func() time.Time
}

// NewTrainer wires a trainer to its artifact store and predictor.
func NewTrainer(store ArtifactStore, predictor *Predictor, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		extractor:  feature.NewExtractor(),
		store:      store,
		predictor:  predictor,
		minSamples: minHistoricalSamples,
		syntheticN: syntheticSampleCount,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TrainHistorical refits from observed match outcomes. Fewer usable
// samples than the floor returns ErrInsufficientData, which callers report
// as a skipped status, not a failure. Samples whose features cannot be
// extracted are dropped individually.
func (t *Trainer) TrainHistorical(ctx context.Context, samples []model.TrainingSample) (*Artifact, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(samples) < t.minSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(samples), t.minSamples)
	}

	rows := make([][]float64, 0, len(samples))
	labels := make([]float64, 0, len(samples))
	for _, s := range samples {
		vec, err := t.extractor.TrainingVector(s)
		if err != nil {
			if errors.Is(err, feature.ErrParse) {
				continue
			}
			return nil, err
		}
		rows = append(rows, vec)
		labels = append(labels, clamp(s.OutcomeScore))
	}
	if len(rows) < t.minSamples {
		return nil, fmt.Errorf("%w: %d usable of %d submitted, need %d",
			ErrInsufficientData, len(rows), len(samples), t.minSamples)
	}

	return t.fit(ctx, rows, labels, feature.MatchOrder, ModeHistorical)
}

// Bootstrap trains an initial model from synthetic samples so the
// predictor serves model scores from first boot, before any real outcome
// exists.
func (t *Trainer) Bootstrap(ctx context.Context) (*Artifact, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, labels := syntheticDataset(t.syntheticN)
	return t.fit(ctx, rows, labels, feature.ModelOrder, ModeSynthetic)
}

func (t *Trainer) fit(ctx context.Context, rows [][]float64, labels []float64, order []string, mode string) (*Artifact, error) {
	scaler := FitScaler(rows)
	scaled, err := scaler.TransformAll(rows)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	reg, err := FitRidge(scaled, labels)
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}
	a := &Artifact{
		Version:      ArtifactVersion,
		Mode:         mode,
		FeatureOrder: append([]string(nil), order...),
		Model:        reg,
		Scaler:       scaler,
		Samples:      len(rows),
		TrainedAt:    t.now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := t.store.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("persist artifact: %w", err)
	}
	t.predictor.SetArtifact(a)
	return a, nil
}
