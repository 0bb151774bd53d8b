package seeder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/decant/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete cellar seeding flow.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting cellar seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("bottles", config.NumBottles),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("lineupSize", config.LineupSize),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate bottles
	bottles, err := generateBottles(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("bottle generation failed: %w", err)
	}

	// Step 3: Submit bottles concurrently
	if err := submitBottles(ctx, config, bottles, stats); err != nil {
		return fmt.Errorf("bottle submission failed: %w", err)
	}

	// Step 4: Let the estimation backfill settle
	logger.Get().Info(ctx, "waiting for profile estimation to settle")
	time.Sleep(BackfillSettleDelay)

	// Step 5: Spot-check readiness classifications
	readiness, err := sampleReadiness(ctx, config, bottles, stats)
	if err != nil {
		return fmt.Errorf("readiness sampling failed: %w", err)
	}

	// Step 6: Build a lineup over the seeded cellar
	lineup, err := getLineup(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("lineup retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(config, readiness, lineup); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save bottles to file
	if err := saveBottlesToFile(ctx, config, bottles); err != nil {
		logger.Get().Warn(ctx, "failed to save bottles to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveBottlesToFile saves the generated bottles to a JSON file.
func saveBottlesToFile(ctx context.Context, config *Config, bottles []Bottle) error {
	if len(bottles) == 0 {
		return fmt.Errorf("no bottles to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_bottles_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write bottles to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, bottle := range bottles {
		jsonData, err := marshalJSON(bottle)
		if err != nil {
			return fmt.Errorf("failed to marshal bottle %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write bottle %d: %w", i, err)
		}

		// Add comma except for last bottle
		if i < len(bottles)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "bottles saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, bottlesPerSecond float64

	if stats.BottlesSubmitted > 0 {
		successRate = float64(stats.BottlesSuccessful) / float64(stats.BottlesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		bottlesPerSecond = float64(stats.BottlesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("bottlesGenerated", stats.BottlesGenerated),
		logger.Int("bottlesSubmitted", stats.BottlesSubmitted),
		logger.Int("bottlesSuccessful", stats.BottlesSuccessful),
		logger.Int("bottlesDuplicate", stats.BottlesDuplicate),
		logger.Int("bottlesFailed", stats.BottlesFailed),
		logger.Int("readinessChecked", stats.ReadinessChecked),
		logger.Int("lineupSlots", stats.LineupSlots),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("bottlesPerSecond", bottlesPerSecond))
}
