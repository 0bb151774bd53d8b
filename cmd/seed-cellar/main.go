package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/decant/internal/seeder"
)

// Default configuration constants.
const (
	defaultNumBottles  = 1000
	defaultLineupSize  = 5
	defaultSampleCount = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numBottles  = flag.Int("bottles", defaultNumBottles, "Number of bottles to generate and submit")
		lineupSize  = flag.Int("lineup", defaultLineupSize, "Desired lineup size to request after seeding")
		sampleCount = flag.Int("sample", defaultSampleCount, "Number of bottles to spot-check readiness for")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated bottles (default: generated_bottles_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp()
		return
	}

	// Setup logging
	if err := seeder.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &seeder.Config{
		BaseURL:     *baseURL,
		NumBottles:  *numBottles,
		LineupSize:  *lineupSize,
		SampleCount: *sampleCount,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the seeder
	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
