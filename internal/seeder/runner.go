package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/givematch/pkg/logger"
)

// HTTP status code constants.
const (
	statusOK = 200
)

// percentageMultiplier converts a ratio to a percentage.
const percentageMultiplier = 100

// Run executes the complete seeding flow: health check, match requests,
// an optional training batch, then fraud analyses.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting givematch seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("donors", config.NumDonors),
		logger.Int("recipients", config.NumRecipient),
		logger.Int("fraudTxs", config.NumFraud),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("train", config.Train),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate donors and the shared recipient pool
	donors := generateDonors(ctx, config, stats)
	recipients := generateRecipients(ctx, config)

	// Step 3: Submit match requests concurrently
	submitMatches(ctx, config, client, donors, recipients, stats)

	// Step 4: Optionally refit the model from the generated pairs
	if config.Train {
		samples := buildTrainingSamples(donors, recipients)
		submitTraining(ctx, config, client, samples, stats)
	}

	// Step 5: Analyze generated transactions
	if config.NumFraud > 0 {
		submitFraud(ctx, config, client, generateTransactions(config), stats)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(config.BaseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 response is healthy (the service returns Prometheus metrics)
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, matchesPerSecond float64

	if stats.MatchesRequested > 0 {
		successRate = float64(stats.MatchesSucceeded) / float64(stats.MatchesRequested) * percentageMultiplier
	}
	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesRequested) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("donorsGenerated", stats.DonorsGenerated),
		logger.Int("matchesRequested", stats.MatchesRequested),
		logger.Int("matchesSucceeded", stats.MatchesSucceeded),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("candidatesReturned", stats.CandidatesReturned),
		logger.String("trainStatus", stats.TrainStatus),
		logger.Int("trainSamples", stats.TrainSamples),
		logger.Int("fraudAnalyses", stats.FraudAnalyses),
		logger.Int("fraudHighRisk", stats.FraudHighRisk),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
