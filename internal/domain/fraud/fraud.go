// Package fraud computes a coarse rule-based risk score for a
// transaction. There is no model path here: the rules are additive points
// with a capped total.
package fraud

import "github.com/okian/givematch/internal/domain/model"

// Rule thresholds and points.
const (
	highAmountThreshold = 50000.0
	highAmountPoints    = 30

	internationalPoints = 20

	lowTrustThreshold = 50.0
	lowTrustPoints    = 25

	maxScore = 100
)

// Tier boundaries on the accumulated score.
const (
	highRiskAbove   = 60
	mediumRiskAbove = 30
	blockAbove      = 80
	reviewAbove     = 40
)

// fixedConfidence is reported on every assessment; the rule set has no
// per-transaction confidence model.
const fixedConfidence = 0.8

// defaultHomeCountry matches the platform's home market.
const defaultHomeCountry = "NG"

// Trigger reason strings, stable for downstream consumers.
const (
	ReasonHighAmount    = "High transaction amount"
	ReasonInternational = "International transaction"
	ReasonLowTrust      = "Low trust score"
)

// Risk tiers.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Recommended actions.
const (
	ActionAllow  = "allow"
	ActionReview = "review"
	ActionBlock  = "block"
)

// Assessment is the outcome of one fraud analysis.
type Assessment struct {
	Score      int
	Risk       string
	Action     string
	Reasons    []string
	Confidence float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithHomeCountry sets the country against which the international rule
// fires.
func WithHomeCountry(country string) Option {
	return func(s *Scorer) {
		if country != "" {
			s.homeCountry = country
		}
	}
}

// Scorer applies the fraud rules.
type Scorer struct {
	homeCountry string
}

// NewScorer creates a fraud scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{homeCountry: defaultHomeCountry}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze scores one transaction. Unknown trust history is treated as
// trusted; only an explicitly low score adds points.
func (s *Scorer) Analyze(tx model.Transaction) Assessment {
	score := 0
	reasons := []string{}

	if tx.Amount > highAmountThreshold {
		score += highAmountPoints
		reasons = append(reasons, ReasonHighAmount)
	}
	if tx.Country != s.homeCountry {
		score += internationalPoints
		reasons = append(reasons, ReasonInternational)
	}
	if tx.UserTrustScore != nil && *tx.UserTrustScore < lowTrustThreshold {
		score += lowTrustPoints
		reasons = append(reasons, ReasonLowTrust)
	}
	if score > maxScore {
		score = maxScore
	}

	return Assessment{
		Score:      score,
		Risk:       riskOf(score),
		Action:     actionOf(score),
		Reasons:    reasons,
		Confidence: fixedConfidence,
	}
}

func riskOf(score int) string {
	switch {
	case score > highRiskAbove:
		return RiskHigh
	case score > mediumRiskAbove:
		return RiskMedium
	default:
		return RiskLow
	}
}

func actionOf(score int) string {
	switch {
	case score > blockAbove:
		return ActionBlock
	case score > reviewAbove:
		return ActionReview
	default:
		return ActionAllow
	}
}
