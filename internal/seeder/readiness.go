package seeder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// sampleReadiness spot-checks readiness classifications for a subset of the
// submitted bottles concurrently.
func sampleReadiness(ctx context.Context, config *Config, bottles []Bottle, stats *Stats) ([]ReadinessResponse, error) {
	sampleCount := minInt(config.SampleCount, len(bottles))
	log.Printf("checking readiness for %d bottles with %d workers...", sampleCount, config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	results := make([]ReadinessResponse, sampleCount)
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					bottleID := bottles[index].ID
					r, err := retrieveSingleReadiness(ctx, client, config.BaseURL, bottleID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to classify %s: %v", bottleID, err)
						}
					} else {
						results[index] = r
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						log.Printf("readiness: %d/%d checked (success: %d, failed: %d)",
							total, sampleCount, atomic.LoadInt64(&retrieved), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	// Send bottle indices to workers
	go func() {
		defer close(indexChan)
		for i := 0; i < sampleCount; i++ {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	valid := make([]ReadinessResponse, 0, len(results))
	for _, r := range results {
		if r.Status != "" {
			valid = append(valid, r)
		}
	}

	// Update stats
	stats.ReadinessChecked = len(valid)

	log.Printf(`readiness sampling completed:
   Checked: %d
   Failed: %d
`, len(valid), int(atomic.LoadInt64(&failed)))

	return valid, nil
}

// retrieveSingleReadiness classifies one bottle through the API.
func retrieveSingleReadiness(ctx context.Context, client *HTTPClient, baseURL, bottleID string) (ReadinessResponse, error) {
	url := fmt.Sprintf("%s/bottles/%s/readiness", baseURL, bottleID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return ReadinessResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return ReadinessResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return ReadinessResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var r ReadinessResponse
	if err := unmarshalJSON(body, &r); err != nil {
		return ReadinessResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return r, nil
}

// getLineup requests a tasting lineup over the whole seeded cellar.
func getLineup(ctx context.Context, config *Config, stats *Stats) ([]Slot, error) {
	log.Printf("building a %d-bottle lineup...", config.LineupSize)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/lineup"

	request := map[string]interface{}{
		"desired_count": config.LineupSize,
		"food": map[string]string{
			"primary": "beef",
			"fat":     "high",
			"sauce":   "none",
			"spice":   "low",
			"smoke":   "low",
		},
	}

	resp, err := client.Post(ctx, url, request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var lineup []Slot
	if err := unmarshalJSON(body, &lineup); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LineupSlots = len(lineup)
	log.Printf("retrieved a lineup with %d slots", len(lineup))

	return lineup, nil
}
