package seeder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/givematch/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`GiveMatch Seed Tool
===================

A concurrent tool for exercising the GiveMatch matching service.

Usage:
  go run cmd/seed-matches/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -donors int
        Number of donors to generate (default 100)
  -recipients int
        Size of the shared candidate pool (default 200)
  -fraud int
        Number of transactions to analyze for fraud (default 50)
  -limit int
        Match limit per request (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -train
        Submit a training batch after matching
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-matches/main.go

  # Larger run with training
  go run cmd/seed-matches/main.go -donors 1000 -recipients 500 -train

  # Verbose run against a remote host
  go run cmd/seed-matches/main.go -verbose -url http://localhost:9090
`)
}
