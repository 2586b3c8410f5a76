// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/givematch/internal/domain/model"
	"github.com/okian/givematch/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Match ranks candidate recipients for a donor.
	Match(ctx context.Context, donor model.Donor, recipients []model.Recipient, limit int) (types.MatchResult, error)

	// Train refits the matching model from historical outcomes.
	Train(ctx context.Context, samples []model.TrainingSample) (types.TrainOutcome, error)

	// Predict scores a raw feature map.
	Predict(ctx context.Context, features map[string]float64, amount float64) (types.Prediction, error)

	// AnalyzeFraud scores a transaction for fraud risk.
	AnalyzeFraud(ctx context.Context, tx model.Transaction) (types.FraudVerdict, error)
}

// validate holds the shared request validator. Struct tags on the request
// payloads below define the rules.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchHandler   *MatchHandler
	trainHandler   *TrainHandler
	predictHandler *PredictHandler
	fraudHandler   *FraudHandler
}

// ServerOption configures the API server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxMatchLimit int
}

// WithMaxMatchLimit caps the per-request match limit. Requests asking for
// more are clamped, not rejected.
func WithMaxMatchLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxMatchLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxMatchLimit: defaultMaxMatchLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		matchHandler:   NewMatchHandler(deps, cfg.maxMatchLimit),
		trainHandler:   NewTrainHandler(deps),
		predictHandler: NewPredictHandler(deps),
		fraudHandler:   NewFraudHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandlePostMatch, "match"))
	mux.HandleFunc("/train", MetricsMiddleware(s.trainHandler.HandlePostTrain, "train"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePostPredict, "predict"))
	mux.HandleFunc("/fraud/analyze", MetricsMiddleware(s.fraudHandler.HandlePostAnalyze, "fraud_analyze"))
}

// locationPayload mirrors the OpenAPI Location schema.
type locationPayload struct {
	City   string `json:"city"`
	Region string `json:"region"`
}

func (p locationPayload) toModel() model.Location {
	return model.Location{City: p.City, Region: p.Region}
}

// donorPayload mirrors the OpenAPI Donor schema.
type donorPayload struct {
	ID                  string          `json:"id" validate:"required"`
	Location            locationPayload `json:"location"`
	TrustScore          *float64        `json:"trust_score" validate:"omitempty,gte=0,lte=100"`
	PreferredCategories []string        `json:"preferred_categories"`
}

func (p donorPayload) toModel() model.Donor {
	return model.Donor{
		ID:                  p.ID,
		Location:            p.Location.toModel(),
		TrustScore:          p.TrustScore,
		PreferredCategories: p.PreferredCategories,
	}
}

// recipientPayload mirrors the OpenAPI Recipient schema. RequestCreated
// stays a raw string so a malformed timestamp fails that candidate at
// scoring time instead of the whole request here.
type recipientPayload struct {
	ID             string          `json:"id" validate:"required"`
	Location       locationPayload `json:"location"`
	TrustScore     *float64        `json:"trust_score" validate:"omitempty,gte=0,lte=100"`
	Category       string          `json:"category"`
	RequestCreated string          `json:"request_created"`
}

func (p recipientPayload) toModel() model.Recipient {
	return model.Recipient{
		ID:             p.ID,
		Location:       p.Location.toModel(),
		TrustScore:     p.TrustScore,
		Category:       p.Category,
		RequestCreated: p.RequestCreated,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
