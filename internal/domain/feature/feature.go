// Package feature derives the numeric factors that scoring consumes from
// donor and recipient records.
package feature

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/okian/givematch/internal/domain/model"
)

// Match factor names. MatchOrder is the contract for the rule path: the
// scaler and model of an artifact trained against it expect exactly this
// sequence.
const (
	FactorLocation      = "location"
	FactorTrust         = "trust"
	FactorUrgency       = "urgency"
	FactorPreferences   = "preferences"
	FactorRandomization = "randomization"
)

// Model feature names for the eight-field predictor path.
const (
	TrustScore         = "trust_score"
	LocationProximity  = "location_proximity"
	TimeWaiting        = "time_waiting"
	CompletedCycles    = "completed_cycles"
	DonationHistory    = "donation_history"
	CategoryPreference = "category_preference"
	Age                = "age"
	AccountAge         = "account_age"
)

// Proximity tier scores.
const (
	proximityExact      = 1.0
	proximitySameRegion = 0.7
	proximityUnrelated  = 0.3
)

// Trust normalization constants.
const (
	defaultTrust = 50.0
	trustScale   = 100.0
)

// Urgency bucket boundaries in hours and their scores.
const (
	urgencyImmediateHours = 1
	urgencyDayHours       = 24
	urgencyThreeDayHours  = 72
	urgencyWeekHours      = 168
)

// Preference match scores. An unknown fit still earns partial credit so
// recipients outside a donor's declared categories are not starved.
const (
	preferenceHit     = 1.0
	preferencePartial = 0.5
)

// Fairness draw bounds for the rule path.
const (
	fairnessFloor = 0.8
	fairnessSpan  = 0.2
)

// MatchOrder fixes the rule-path feature vector layout.
var MatchOrder = []string{ //nolint:gochecknoglobals // fixed feature-order contract
	FactorLocation,
	FactorTrust,
	FactorUrgency,
	FactorPreferences,
	FactorRandomization,
}

// ModelOrder fixes the predictor-path feature vector layout.
var ModelOrder = []string{ //nolint:gochecknoglobals // fixed feature-order contract
	TrustScore,
	LocationProximity,
	TimeWaiting,
	CompletedCycles,
	DonationHistory,
	CategoryPreference,
	Age,
	AccountAge,
}

// defaults holds the substitute value used when a feature is absent from a
// caller-supplied feature map. The fairness factor is never defaulted; it
// is drawn fresh on every evaluation.
var defaults = map[string]float64{ //nolint:gochecknoglobals // fixed feature defaults
	TrustScore:         0.5,
	LocationProximity:  0,
	TimeWaiting:        0,
	CompletedCycles:    0,
	DonationHistory:    0,
	CategoryPreference: 0,
	Age:                25,
	AccountAge:         0,
	FactorLocation:     proximityUnrelated,
	FactorTrust:        0.5,
	FactorUrgency:      1.0,
	FactorPreferences:  preferencePartial,
}

// Default returns the substitute value for a named feature.
func Default(name string) float64 {
	return defaults[name]
}

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithClock overrides the time source, used to pin urgency in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRandSource overrides the fairness random source.
func WithRandSource(fn func() float64) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.randFn = fn
		}
	}
}

// Extractor builds factor maps and feature vectors from domain records.
type Extractor struct {
	now    func() time.Time
	randFn func() float64
}

// NewExtractor creates an Extractor with the real clock and the shared
// random source.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		now:    time.Now,
		randFn: rand.Float64, //nolint:gosec // fairness noise, not security material
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MatchFactors computes the five rule-path factors for a donor/recipient
// pair. A malformed request timestamp fails the pair with ErrParse rather
// than guessing an urgency bucket.
func (e *Extractor) MatchFactors(donor model.Donor, recipient model.Recipient) (map[string]float64, error) {
	urgency, err := e.urgencyOf(recipient)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		FactorLocation:      Proximity(donor.Location, recipient.Location),
		FactorTrust:         TrustAverage(donor.TrustScore, recipient.TrustScore),
		FactorUrgency:       urgency,
		FactorPreferences:   PreferenceMatch(donor.PreferredCategories, recipient.Category),
		FactorRandomization: e.Fairness(),
	}, nil
}

// TrainingVector builds the five-field feature vector for one historical
// sample, laid out in MatchOrder. Preference match is binary here, unlike
// the match path where unknown fit keeps partial credit.
func (e *Extractor) TrainingVector(sample model.TrainingSample) ([]float64, error) {
	urgency, err := e.urgencyOf(sample.Recipient)
	if err != nil {
		return nil, err
	}
	pref := 0.0
	if containsCategory(sample.Donor.PreferredCategories, sample.Recipient.Category) {
		pref = 1.0
	}
	return []float64{
		Proximity(sample.Donor.Location, sample.Recipient.Location),
		TrustAverage(sample.Donor.TrustScore, sample.Recipient.TrustScore),
		urgency,
		pref,
		e.Fairness(),
	}, nil
}

// Fairness draws the per-evaluation randomization factor in [0.8, 1.0).
// The draw is intentionally fresh on every call and never cached.
func (e *Extractor) Fairness() float64 {
	return fairnessFloor + e.randFn()*fairnessSpan
}

func (e *Extractor) urgencyOf(recipient model.Recipient) (float64, error) {
	raw := strings.TrimSpace(recipient.RequestCreated)
	if raw == "" {
		// No creation time means the request is brand new.
		return Urgency(0), nil
	}
	created, err := parseTimestamp(raw)
	if err != nil {
		return 0, fmt.Errorf("recipient %s: %w: %w", recipient.ID, ErrParse, err)
	}
	age := e.now().Sub(created).Hours()
	if age < 0 {
		age = 0
	}
	return Urgency(age), nil
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO form the original
// clients submit.
func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck // wrapped by the caller with ErrParse
	}
	return t, nil
}

// Proximity buckets location similarity. Exact match scores highest, a
// shared region scores 0.7, and a shared city with differing regions also
// scores highest. The region check runs before the city check, so a pair
// sharing both city and region whose strings differ only elsewhere stays
// in the region tier. Missing components fall through to the low tier.
func Proximity(donor, recipient model.Location) float64 {
	dCity, dRegion := strings.TrimSpace(donor.City), strings.TrimSpace(donor.Region)
	rCity, rRegion := strings.TrimSpace(recipient.City), strings.TrimSpace(recipient.Region)

	if dCity == "" && dRegion == "" || rCity == "" && rRegion == "" {
		return proximityUnrelated
	}
	if dCity == rCity && dRegion == rRegion {
		return proximityExact
	}
	if dRegion != "" && dRegion == rRegion {
		return proximitySameRegion
	}
	if dCity != "" && dCity == rCity {
		return proximityExact
	}
	return proximityUnrelated
}

// TrustAverage normalizes both trust scores to [0,1] (each capped at 1
// after dividing by 100) and averages them. Missing scores substitute the
// neutral 50.
func TrustAverage(donor, recipient *float64) float64 {
	return (normalizeTrust(donor) + normalizeTrust(recipient)) / 2
}

func normalizeTrust(score *float64) float64 {
	v := defaultTrust
	if score != nil {
		v = *score
	}
	n := v / trustScale
	if n > 1 {
		n = 1
	}
	return n
}

// Urgency maps elapsed hours since request creation to a non-increasing
// step score.
func Urgency(ageHours float64) float64 {
	switch {
	case ageHours < urgencyImmediateHours:
		return 1.0
	case ageHours < urgencyDayHours:
		return 0.8
	case ageHours < urgencyThreeDayHours:
		return 0.6
	case ageHours < urgencyWeekHours:
		return 0.4
	default:
		return 0.2
	}
}

// PreferenceMatch scores category fit against the donor's declared set.
func PreferenceMatch(preferred []string, category string) float64 {
	if containsCategory(preferred, category) {
		return preferenceHit
	}
	return preferencePartial
}

func containsCategory(preferred []string, category string) bool {
	if category == "" {
		return false
	}
	for _, c := range preferred {
		if c == category {
			return true
		}
	}
	return false
}
