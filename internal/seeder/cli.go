package seeder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/decant/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
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

// ShowHelp prints usage information for the cellar seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`Decant Cellar Seeder
====================

A concurrent tool for populating a running decant service with a varied
cellar and exercising classification, pairing and lineup building.

Usage:
  go run cmd/seed-cellar/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -bottles int
        Number of bottles to generate and submit (default 1000)
  -lineup int
        Desired lineup size to request after seeding (default 5)
  -sample int
        Number of bottles to spot-check readiness for (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated bottles (default: generated_bottles_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-cellar/main.go

  # Seed a large cellar against a remote instance
  go run cmd/seed-cellar/main.go -bottles 50000 -workers 16 -url http://localhost:8080

  # Seed with verbose output
  go run cmd/seed-cellar/main.go -verbose -bottles 1000

  # Seed with a custom log file
  go run cmd/seed-cellar/main.go -bottles 5000 -log my_seed.log
`)
}
