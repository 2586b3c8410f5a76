package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/givematch/internal/seeder"
)

// Default configuration constants.
const (
	defaultNumDonors     = 100
	defaultNumRecipients = 200
	defaultNumFraud      = 50
	defaultMatchLimit    = 5
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		donors     = flag.Int("donors", defaultNumDonors, "Number of donors to generate")
		recipients = flag.Int("recipients", defaultNumRecipients, "Size of the shared candidate pool")
		fraud      = flag.Int("fraud", defaultNumFraud, "Number of transactions to analyze for fraud")
		limit      = flag.Int("limit", defaultMatchLimit, "Match limit per request")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		train      = flag.Bool("train", false, "Submit a training batch after matching")
		logFile    = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp()
		return
	}

	if err := seeder.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seeder.Config{
		BaseURL:      *baseURL,
		NumDonors:    *donors,
		NumRecipient: *recipients,
		NumFraud:     *fraud,
		MatchLimit:   *limit,
		Workers:      *workers,
		Timeout:      *timeout,
		LogFile:      *logFile,
		Verbose:      *verbose,
		Train:        *train,
	}

	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}
