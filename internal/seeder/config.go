package seeder

import "time"

// Config holds configuration for the seeding run
type Config struct {
	BaseURL      string        // Base URL of the service
	NumDonors    int           // Number of donors to generate
	NumRecipient int           // Number of candidate recipients per donor pool
	NumFraud     int           // Number of transactions for fraud analysis
	MatchLimit   int           // Limit passed on match requests
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
	Train        bool          // Submit a training batch after matching
}

// Location mirrors the API location schema
type Location struct {
	City   string `json:"city"`
	Region string `json:"region"`
}

// Donor mirrors the API donor schema
type Donor struct {
	ID                  string   `json:"id"`
	Location            Location `json:"location"`
	TrustScore          *float64 `json:"trust_score,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
}

// Recipient mirrors the API recipient schema
type Recipient struct {
	ID             string   `json:"id"`
	Location       Location `json:"location"`
	TrustScore     *float64 `json:"trust_score,omitempty"`
	Category       string   `json:"category"`
	RequestCreated string   `json:"request_created"`
}

// MatchRequest is the POST /match payload
type MatchRequest struct {
	Donor      Donor       `json:"donor"`
	Recipients []Recipient `json:"recipients"`
	Limit      int         `json:"limit,omitempty"`
}

// Match is one ranked entry in a match response
type Match struct {
	RecipientID string             `json:"recipient_id"`
	Score       float64            `json:"score"`
	Factors     map[string]float64 `json:"factors"`
}

// MatchResult is the POST /match response
type MatchResult struct {
	Matches          []Match `json:"matches"`
	TotalAvailable   int     `json:"total_available"`
	Skipped          int     `json:"skipped"`
	AlgorithmVersion string  `json:"algorithm_version"`
}

// TrainingSample is one element of the POST /train payload
type TrainingSample struct {
	Donor        Donor     `json:"donor"`
	Recipient    Recipient `json:"recipient"`
	OutcomeScore float64   `json:"outcome_score"`
}

// TrainRequest is the POST /train payload
type TrainRequest struct {
	Matches []TrainingSample `json:"matches"`
}

// TrainOutcome is the POST /train response
type TrainOutcome struct {
	Status  string `json:"status"`
	Samples int    `json:"samples"`
}

// TxLocation is the transaction location on the fraud payload
type TxLocation struct {
	Country string `json:"country"`
}

// UserHistory is the transaction user history on the fraud payload
type UserHistory struct {
	TrustScore *float64 `json:"trust_score,omitempty"`
}

// Transaction is the transaction under analysis
type Transaction struct {
	ID          string      `json:"id"`
	Amount      float64     `json:"amount"`
	Location    TxLocation  `json:"location"`
	UserHistory UserHistory `json:"user_history"`
}

// FraudRequest is the POST /fraud/analyze payload
type FraudRequest struct {
	Transaction Transaction `json:"transaction"`
}

// FraudVerdict is the POST /fraud/analyze response
type FraudVerdict struct {
	Score  int    `json:"score"`
	Risk   string `json:"risk"`
	Action string `json:"action"`
}

// Stats holds seeding run statistics
type Stats struct {
	DonorsGenerated    int
	MatchesRequested   int
	MatchesSucceeded   int
	MatchesFailed      int
	CandidatesReturned int
	TrainStatus        string
	TrainSamples       int
	FraudAnalyses      int
	FraudHighRisk      int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
