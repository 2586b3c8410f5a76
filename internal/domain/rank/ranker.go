// Package rank scores a donor against a candidate set and returns the
// best matches with their factor breakdowns.
package rank

import (
	"context"
	"errors"
	"sort"

	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/model"
	"github.com/okian/givematch/internal/domain/scoring"
	"github.com/okian/givematch/pkg/logger"
)

// DefaultLimit is the result size when the caller does not specify one.
const DefaultLimit = 5

// Result is a ranked, truncated candidate list. Total reports how many
// candidates were considered; Skipped how many failed feature extraction
// and were excluded without affecting the rest of the batch.
type Result struct {
	Matches []model.MatchCandidate
	Total   int
	Skipped int
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Ranker) {
		if log != nil {
			r.log = log
		}
	}
}

// WithExtractor overrides the feature extractor.
func WithExtractor(e *feature.Extractor) Option {
	return func(r *Ranker) {
		if e != nil {
			r.extractor = e
		}
	}
}

// Ranker evaluates candidates with the match profile engine.
type Ranker struct {
	extractor *feature.Extractor
	engine    *scoring.Engine
	log       logger.Logger
}

// New builds a Ranker over the standard match profile.
func New(opts ...Option) *Ranker {
	engine, err := scoring.NewEngine(scoring.MatchProfile())
	if err != nil {
		// The built-in profile is statically valid.
		panic(err)
	}
	r := &Ranker{
		extractor: feature.NewExtractor(),
		engine:    engine,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every candidate for the donor, sorts descending by score
// and truncates to limit. The sort is stable so candidates with equal
// scores keep their submission order. A candidate whose features fail to
// parse is skipped and counted; it never corrupts the others.
func (r *Ranker) Rank(ctx context.Context, donor model.Donor, recipients []model.Recipient, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := make([]model.MatchCandidate, 0, len(recipients))
	skipped := 0
	for _, recipient := range recipients {
		factors, err := r.extractor.MatchFactors(donor, recipient)
		if err != nil {
			skipped++
			if r.log != nil && errors.Is(err, feature.ErrParse) {
				r.log.Warn(ctx, "candidate skipped",
					logger.String("recipient", recipient.ID),
					logger.Error(err),
				)
			}
			continue
		}
		score, breakdown := r.engine.Score(factors)
		matches = append(matches, model.MatchCandidate{
			Recipient: recipient,
			Score:     score,
			Factors:   breakdown,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return Result{
		Matches: matches,
		Total:   len(recipients),
		Skipped: skipped,
	}
}
