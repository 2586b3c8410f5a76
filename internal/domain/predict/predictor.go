// Package predict wraps the trained regression model and its feature
// scaler, with a deterministic rule-based fallback when the model cannot
// produce a score.
package predict

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/scoring"
)

// Amount bonus: higher amounts get slightly higher priority.
const (
	amountDivisor     = 10000.0
	amountBonusWeight = 0.1
)

// Source identifies which path produced a score.
type Source string

// Score sources.
const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Outcome is the two-variant prediction result. A fallback outcome carries
// the reason the model path failed so the substitution stays observable
// instead of being silently swallowed.
type Outcome struct {
	Score          float64
	Source         Source
	FallbackReason string
}

// PredictorOption applies a configuration option to the Predictor.
type PredictorOption func(*Predictor)

// WithFallbackEngine overrides the fallback scoring engine.
func WithFallbackEngine(engine *scoring.Engine) PredictorOption {
	return func(p *Predictor) {
		if engine != nil {
			p.fallback = engine
		}
	}
}

// WithFairnessSource overrides the random source used when an artifact's
// feature order includes the randomization factor.
func WithFairnessSource(fn func() float64) PredictorOption {
	return func(p *Predictor) {
		if fn != nil {
			p.extractor = feature.NewExtractor(feature.WithRandSource(fn))
		}
	}
}

// Predictor holds the current artifact behind an atomic pointer. The
// trainer replaces the whole artifact by swapping the reference; readers
// never observe a partially written model.
type Predictor struct {
	artifact  atomic.Pointer[Artifact]
	fallback  *scoring.Engine
	extractor *feature.Extractor
}

// NewPredictor builds a predictor with no artifact loaded. Until an
// artifact is set every prediction takes the fallback path.
func NewPredictor(opts ...PredictorOption) *Predictor {
	engine, err := scoring.NewEngine(scoring.FallbackProfile(),
		scoring.WithJitter(scoring.FallbackJitterWeight))
	if err != nil {
		// The built-in profile is statically valid.
		panic(err)
	}
	p := &Predictor{
		fallback:  engine,
		extractor: feature.NewExtractor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetArtifact atomically replaces the loaded artifact.
func (p *Predictor) SetArtifact(a *Artifact) {
	p.artifact.Store(a)
}

// Artifact returns the currently loaded artifact, or nil.
func (p *Predictor) Artifact() *Artifact {
	return p.artifact.Load()
}

// Predict scores a feature map. The model path scales the vector laid out
// per the artifact's feature order, runs the regression and adds the
// amount bonus. Any failure along that path degrades to the rule-based
// fallback, which never raises; the result is always in [0,1].
func (p *Predictor) Predict(features map[string]float64, amount float64) Outcome {
	score, err := p.modelScore(features, amount)
	if err != nil {
		return p.fallbackScore(features, err)
	}
	return Outcome{Score: score, Source: SourceModel}
}

func (p *Predictor) modelScore(features map[string]float64, amount float64) (float64, error) {
	a := p.artifact.Load()
	if a == nil {
		return 0, ErrNoArtifact
	}
	if err := a.Validate(); err != nil {
		return 0, err
	}
	vec := p.vectorFor(a.FeatureOrder, features)
	scaled, err := a.Scaler.Transform(vec)
	if err != nil {
		return 0, fmt.Errorf("scale: %w", err)
	}
	y, err := a.Model.Predict(scaled)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: non-finite model output", ErrInvalidArtifact)
	}
	y += amountBonus(amount)
	return clamp(y), nil
}

// vectorFor lays out the feature map per order, substituting declared
// defaults for absent features. The fairness factor is drawn fresh, never
// defaulted and never read from the caller's map.
func (p *Predictor) vectorFor(order []string, features map[string]float64) []float64 {
	vec := make([]float64, len(order))
	for i, name := range order {
		if name == feature.FactorRandomization {
			vec[i] = p.extractor.Fairness()
			continue
		}
		if v, ok := features[name]; ok {
			vec[i] = v
			continue
		}
		vec[i] = feature.Default(name)
	}
	return vec
}

func (p *Predictor) fallbackScore(features map[string]float64, cause error) Outcome {
	values := map[string]float64{
		feature.TrustScore:        feature.Default(feature.TrustScore),
		feature.LocationProximity: feature.Default(feature.LocationProximity),
		feature.TimeWaiting:       feature.Default(feature.TimeWaiting),
		feature.DonationHistory:   feature.Default(feature.DonationHistory),
		feature.CompletedCycles:   feature.Default(feature.CompletedCycles),
	}
	for name := range values {
		if v, ok := features[name]; ok {
			values[name] = v
		}
	}
	score, _ := p.fallback.Score(values)
	return Outcome{Score: score, Source: SourceFallback, FallbackReason: cause.Error()}
}

func amountBonus(amount float64) float64 {
	f := amount / amountDivisor
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f * amountBonusWeight
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
