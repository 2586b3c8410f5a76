// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/givematch/internal/adapters/repository"
	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/fraud"
	"github.com/okian/givematch/internal/domain/fraudcache"
	"github.com/okian/givematch/internal/domain/model"
	"github.com/okian/givematch/internal/domain/predict"
	"github.com/okian/givematch/internal/domain/rank"
	"github.com/okian/givematch/internal/domain/types"
	"github.com/okian/givematch/pkg/logger"
	"github.com/okian/givematch/pkg/metrics"
)

// AlgorithmVersion is reported on every match response.
const AlgorithmVersion = "v2.2"

// Default configuration values.
const (
	defaultArtifactDir      = "models"
	defaultHomeCountry      = "NG"
	defaultMatchLimit       = rank.DefaultLimit
	defaultFraudCacheSize   = 10000
	defaultSyntheticSamples = 1000
	defaultMinSamples       = 10
)

// Service wires the matching, training and fraud components together and
// owns the artifact lifecycle: load once at start, replace by atomic swap
// after a successful training pass.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	extractor  *feature.Extractor
	predictor  *predict.Predictor
	trainer    *predict.Trainer
	ranker     *rank.Ranker
	fraudScore *fraud.Scorer
	fraudCache fraudcache.Cache

	// Configuration
	artifactDir      string
	homeCountry      string
	defaultLimit     int
	fraudCacheSize   int
	syntheticSamples int
	minSamples       int

	// State
	started bool

	// Logging
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithArtifactDir sets the directory the model artifact persists under.
func WithArtifactDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.artifactDir = dir
		}
	}
}

// WithHomeCountry sets the home market for the fraud rules.
func WithHomeCountry(country string) Option {
	return func(s *Service) {
		if country != "" {
			s.homeCountry = country
		}
	}
}

// WithDefaultMatchLimit sets the result size used when a request omits it.
func WithDefaultMatchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// WithFraudCacheSize bounds the fraud verdict cache.
func WithFraudCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.fraudCacheSize = size
		}
	}
}

// WithSyntheticSamples sets the bootstrap dataset size.
func WithSyntheticSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.syntheticSamples = n
		}
	}
}

// WithMinTrainingSamples sets the historical-sample floor.
func WithMinTrainingSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minSamples = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		artifactDir:      defaultArtifactDir,
		homeCountry:      defaultHomeCountry,
		defaultLimit:     defaultMatchLimit,
		fraudCacheSize:   defaultFraudCacheSize,
		syntheticSamples: defaultSyntheticSamples,
		minSamples:       defaultMinSamples,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes components and loads or bootstraps the artifact.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	s.log.Info(ctx, "starting matching service...")

	s.store = repository.NewFileStore(s.artifactDir)
	s.extractor = feature.NewExtractor()
	s.predictor = predict.NewPredictor()
	s.trainer = predict.NewTrainer(s.store, s.predictor,
		predict.WithExtractor(s.extractor),
		predict.WithMinSamples(s.minSamples),
		predict.WithSyntheticSamples(s.syntheticSamples),
	)
	s.ranker = rank.New(
		rank.WithExtractor(s.extractor),
		rank.WithLogger(s.log),
	)
	s.fraudScore = fraud.NewScorer(fraud.WithHomeCountry(s.homeCountry))
	s.fraudCache = fraudcache.New(fraudcache.WithMaxSize(s.fraudCacheSize))

	s.loadOrBootstrap(ctx)

	s.started = true
	s.log.Info(ctx, "matching service started",
		logger.String("artifactDir", s.artifactDir),
		logger.String("homeCountry", s.homeCountry),
		logger.Int("defaultLimit", s.defaultLimit),
	)
	return nil
}

// loadOrBootstrap loads the persisted artifact; when none exists (or the
// file is unreadable) it trains the synthetic bootstrap model so predict
// serves model scores from first boot. A failed bootstrap is not fatal:
// the rule-based fallback covers prediction until the next training pass.
func (s *Service) loadOrBootstrap(ctx context.Context) {
	a, err := s.store.Load(ctx)
	switch {
	case err == nil:
		s.predictor.SetArtifact(a)
		s.log.Info(ctx, "loaded model artifact",
			logger.String("mode", a.Mode),
			logger.Int("samples", a.Samples),
		)
		metrics.UpdateArtifactInfo(a.Mode, a.Samples, a.TrainedAt)
		return
	case errors.Is(err, repository.ErrNotFound):
		s.log.Info(ctx, "no model artifact found, training bootstrap model")
	default:
		s.log.Warn(ctx, "model artifact unreadable, training bootstrap model", logger.Error(err))
	}

	start := time.Now()
	a, err = s.trainer.Bootstrap(ctx)
	if err != nil {
		s.log.Error(ctx, "bootstrap training failed, predictions will use fallback", logger.Error(err))
		metrics.RecordTrainingRun(predict.ModeSynthetic, "failed")
		return
	}
	metrics.RecordTrainingRun(predict.ModeSynthetic, "completed")
	metrics.RecordTrainingDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateArtifactInfo(a.Mode, a.Samples, a.TrainedAt)
	s.log.Info(ctx, "bootstrap model trained",
		logger.Int("samples", a.Samples),
		logger.Float64("durationMs", float64(time.Since(start).Milliseconds())),
	)
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log.Info(context.Background(), "matching service stopped")
}

// Match ranks recipients for a donor. An empty donor or empty candidate
// list is the caller's error; everything else in the batch degrades
// per-candidate.
func (s *Service) Match(ctx context.Context, donor model.Donor, recipients []model.Recipient, limit int) (types.MatchResult, error) {
	if isZeroDonor(donor) {
		return types.MatchResult{}, fmt.Errorf("%w: missing donor", ErrInvalidInput)
	}
	if len(recipients) == 0 {
		return types.MatchResult{}, fmt.Errorf("%w: missing recipients", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	start := time.Now()
	res := s.ranker.Rank(ctx, donor, recipients, limit)
	metrics.RecordMatchRequest()
	metrics.RecordCandidatesScored(res.Total - res.Skipped)
	metrics.RecordCandidatesSkipped(res.Skipped)
	metrics.RecordMatchLatency(float64(time.Since(start).Milliseconds()))

	matches := make([]types.Match, len(res.Matches))
	for i, m := range res.Matches {
		matches[i] = types.Match{
			RecipientID: m.Recipient.ID,
			Score:       m.Score,
			Factors:     m.Factors,
		}
	}
	return types.MatchResult{
		Matches:          matches,
		TotalAvailable:   res.Total,
		Skipped:          res.Skipped,
		AlgorithmVersion: AlgorithmVersion,
	}, nil
}

// Train refits the model from historical outcomes. Too few samples is a
// skipped status, not an error.
func (s *Service) Train(ctx context.Context, samples []model.TrainingSample) (types.TrainOutcome, error) {
	start := time.Now()
	a, err := s.trainer.TrainHistorical(ctx, samples)
	if err != nil {
		if errors.Is(err, predict.ErrInsufficientData) {
			s.log.Warn(ctx, "not enough data to train model", logger.Int("samples", len(samples)))
			metrics.RecordTrainingRun(predict.ModeHistorical, "skipped")
			return types.TrainOutcome{Status: types.StatusTrainingSkipped, Samples: len(samples)}, nil
		}
		metrics.RecordTrainingRun(predict.ModeHistorical, "failed")
		return types.TrainOutcome{}, fmt.Errorf("train model: %w", err)
	}

	metrics.RecordTrainingRun(predict.ModeHistorical, "completed")
	metrics.RecordTrainingDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateArtifactInfo(a.Mode, a.Samples, a.TrainedAt)
	s.log.Info(ctx, "trained matching model",
		logger.Int("samples", a.Samples),
		logger.Float64("durationMs", float64(time.Since(start).Milliseconds())),
	)
	return types.TrainOutcome{Status: types.StatusTrainingCompleted, Samples: a.Samples}, nil
}

// Predict scores a raw feature map. The outcome reports whether the model
// or the rule-based fallback produced the score.
func (s *Service) Predict(_ context.Context, features map[string]float64, amount float64) (types.Prediction, error) {
	out := s.predictor.Predict(features, amount)
	metrics.RecordPrediction(string(out.Source))
	return types.Prediction{
		Score:          out.Score,
		Source:         string(out.Source),
		FallbackReason: out.FallbackReason,
	}, nil
}

// AnalyzeFraud scores a transaction, serving repeated analyses of the
// same transaction from the verdict cache.
func (s *Service) AnalyzeFraud(ctx context.Context, tx model.Transaction) (types.FraudVerdict, error) {
	if tx.ID != "" {
		if a, ok := s.fraudCache.Get(ctx, tx.ID); ok {
			metrics.RecordFraudCacheHit()
			return verdictOf(a), nil
		}
	}
	a := s.fraudScore.Analyze(tx)
	if tx.ID != "" {
		s.fraudCache.Put(ctx, tx.ID, a)
		metrics.UpdateFraudCacheSize(int(s.fraudCache.Size()))
	}
	metrics.RecordFraudAnalysis(a.Risk)
	return verdictOf(a), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"algorithm_version": AlgorithmVersion,
		"home_country":      s.homeCountry,
		"default_limit":     s.defaultLimit,
	}
	if s.predictor != nil {
		if a := s.predictor.Artifact(); a != nil {
			stats["artifact_mode"] = a.Mode
			stats["artifact_samples"] = a.Samples
			stats["artifact_trained_at"] = a.TrainedAt
			stats["artifact_features"] = len(a.FeatureOrder)
		} else {
			stats["artifact_mode"] = "none"
		}
	}
	if s.fraudCache != nil {
		stats["fraud_cache_size"] = s.fraudCache.Size()
	}
	return stats
}

func verdictOf(a fraud.Assessment) types.FraudVerdict {
	return types.FraudVerdict{
		Score:      a.Score,
		Risk:       a.Risk,
		Action:     a.Action,
		Reasons:    a.Reasons,
		Confidence: a.Confidence,
	}
}

// isZeroDonor reports whether the donor record carries no information at
// all, which the contract treats as invalid input.
func isZeroDonor(d model.Donor) bool {
	return d.ID == "" &&
		d.Location.City == "" &&
		d.Location.Region == "" &&
		d.TrustScore == nil &&
		len(d.PreferredCategories) == 0
}
