// Package model contains domain models passed between layers.
package model

// Location is a coarse place descriptor. Proximity scoring compares the
// city and region components, never real coordinates.
type Location struct {
	City   string
	Region string
}

// Donor represents a giving party.
type Donor struct {
	ID       string
	Location Location
	// TrustScore is on the platform's 0-100 scale. Nil means unknown and
	// scoring substitutes the neutral default.
	TrustScore *float64
	// PreferredCategories lists the donation categories this donor opted into.
	PreferredCategories []string
}

// Recipient represents a party waiting for a donation.
type Recipient struct {
	ID         string
	Location   Location
	TrustScore *float64
	// Category the recipient's open request belongs to.
	Category string
	// RequestCreated is the raw request-creation timestamp as submitted by
	// the caller (RFC 3339). It is parsed at scoring time so a malformed
	// value fails that candidate only. Empty means "just created".
	RequestCreated string
}

// MatchCandidate is one scored recipient in a ranking result.
type MatchCandidate struct {
	Recipient Recipient
	// Score is the overall weighted score, clamped to [0,1].
	Score float64
	// Factors maps factor name to its normalized sub-score.
	Factors map[string]float64
}

// TrainingSample is one historical match outcome used to refit the model.
type TrainingSample struct {
	Donor     Donor
	Recipient Recipient
	// OutcomeScore is the observed success of the match in [0,1].
	OutcomeScore float64
}

// Transaction is the record inspected by fraud analysis.
type Transaction struct {
	ID     string
	Amount float64
	// Country is the ISO code the transaction originated from.
	Country string
	// UserTrustScore is the 0-100 trust history of the paying user.
	// Nil means no history, which fraud rules treat as trusted.
	UserTrustScore *float64
}
