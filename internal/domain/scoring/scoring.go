// Package scoring provides the weighted-sum engine shared by the match
// ranking path and the predictor fallback path. The two paths differ only
// in their factor profiles, so a single engine is configured per call site
// instead of duplicating the arithmetic.
package scoring

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/givematch/internal/domain/feature"
)

// weightSumTolerance bounds the float drift allowed when validating that
// a profile's weights sum to 1.0.
const weightSumTolerance = 1e-9

// Factor is one named input to a weighted score.
type Factor struct {
	Name   string
	Weight float64
	// Normalize maps the raw factor value into [0,1] before weighting.
	// Nil means the value is used as-is.
	Normalize func(float64) float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithJitter adds a uniform [0,1) draw scaled by weight to every score.
// The jitter sits outside the weight set and the result is still clamped.
func WithJitter(weight float64) Option {
	return func(e *Engine) {
		if weight > 0 {
			e.jitterWeight = weight
		}
	}
}

// WithRandSource overrides the jitter random source.
func WithRandSource(fn func() float64) Option {
	return func(e *Engine) {
		if fn != nil {
			e.randFn = fn
		}
	}
}

// Engine computes clamped weighted sums over named factors.
type Engine struct {
	factors      []Factor
	jitterWeight float64
	randFn       func() float64
}

// NewEngine validates the profile and builds an engine. Weights must be
// positive and sum to 1.0; a profile that fails this invariant is a
// programming error surfaced at construction, not at scoring time.
func NewEngine(factors []Factor, opts ...Option) (*Engine, error) {
	if len(factors) == 0 {
		return nil, ErrEmptyProfile
	}
	sum := 0.0
	for _, f := range factors {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: unnamed factor", ErrInvalidWeights)
		}
		if f.Weight <= 0 {
			return nil, fmt.Errorf("%w: factor %q has weight %v", ErrInvalidWeights, f.Name, f.Weight)
		}
		sum += f.Weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidWeights, sum)
	}
	e := &Engine{
		factors: factors,
		randFn:  rand.Float64, //nolint:gosec // fairness noise, not security material
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Score computes the weighted sum over values, clamped to [0,1]. Missing
// factors contribute their zero-normalized value. The returned breakdown
// maps factor name to its normalized (unweighted) sub-score.
func (e *Engine) Score(values map[string]float64) (float64, map[string]float64) {
	total := 0.0
	breakdown := make(map[string]float64, len(e.factors))
	for _, f := range e.factors {
		v := values[f.Name]
		if f.Normalize != nil {
			v = f.Normalize(v)
		}
		breakdown[f.Name] = v
		total += v * f.Weight
	}
	if e.jitterWeight > 0 {
		total += e.randFn() * e.jitterWeight
	}
	return clamp(total), breakdown
}

// MatchProfile is the weighted rule used to rank recipients for a donor.
// The randomization factor value is drawn by the feature extractor per
// evaluation; the engine only weights it.
func MatchProfile() []Factor {
	return []Factor{
		{Name: feature.FactorLocation, Weight: 0.30},
		{Name: feature.FactorTrust, Weight: 0.25},
		{Name: feature.FactorUrgency, Weight: 0.20},
		{Name: feature.FactorPreferences, Weight: 0.15},
		{Name: feature.FactorRandomization, Weight: 0.10},
	}
}

// FallbackProfile is the independent rule used when the trained predictor
// cannot produce a score. Waiting time, history and cycle counts are
// normalized against fixed caps before weighting. Combine it with
// WithJitter(FallbackJitterWeight) so the fairness term survives the
// fallback path.
func FallbackProfile() []Factor {
	return []Factor{
		{Name: feature.TrustScore, Weight: 0.30},
		{Name: feature.LocationProximity, Weight: 0.25},
		{Name: feature.TimeWaiting, Weight: 0.20, Normalize: cappedRatio(30)},
		{Name: feature.DonationHistory, Weight: 0.15, Normalize: cappedRatio(10)},
		{Name: feature.CompletedCycles, Weight: 0.10, Normalize: cappedRatio(5)},
	}
}

// FallbackJitterWeight scales the uniform fairness draw on the fallback path.
const FallbackJitterWeight = 0.10

// cappedRatio normalizes a count against limit, capped to [0,1].
func cappedRatio(limit float64) func(float64) float64 {
	return func(v float64) float64 {
		r := v / limit
		if r > 1 {
			return 1
		}
		if r < 0 {
			return 0
		}
		return r
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
