package seeder

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/decant/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	cellarStyleDivisor = 8
)

// Constants for vintage generation ranges (years back from today).
const (
	youngVintageMin   = 0
	youngVintageRange = 3
	primeVintageMin   = 4
	primeVintageRange = 8
	oldVintageMin     = 12
	oldVintageRange   = 15
)

// Cellar style cases used to vary the generated population.
const (
	caseYoungRed       = 0
	casePrimeRed       = 1
	caseOldRed         = 2
	caseCrispWhite     = 3
	caseAgedWhite      = 4
	caseSparkling      = 5
	caseDessert        = 6
	caseMissingVintage = 7
)

var regionsByCategory = map[string][]string{
	"red":       {"bordeaux", "rioja", "barossa", "napa", "tuscany"},
	"white":     {"chablis", "mosel", "marlborough", "alsace"},
	"rose":      {"provence", "tavel"},
	"sparkling": {"champagne", "franciacorta"},
	"dessert":   {"sauternes", "tokaj"},
	"fortified": {"porto", "jerez", "madeira"},
}

var varietiesByCategory = map[string][][]string{
	"red":       {{"cabernet sauvignon", "merlot"}, {"tempranillo"}, {"shiraz"}, {"nebbiolo"}, {"pinot noir"}},
	"white":     {{"chardonnay"}, {"riesling"}, {"sauvignon blanc"}, {"gewurztraminer"}},
	"rose":      {{"grenache", "cinsault"}},
	"sparkling": {{"chardonnay", "pinot noir"}},
	"dessert":   {{"semillon"}, {"furmint"}},
	"fortified": {{"touriga nacional"}, {"palomino"}},
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, limit).
func getRandomInt(limit int) int {
	if limit <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	return int(n.Int64())
}

// generateBottles creates the specified number of bottles with unique IDs.
func generateBottles(ctx context.Context, config *Config, stats *Stats) ([]Bottle, error) {
	logger.Get().Info(ctx, "generating bottles with unique IDs", logger.Int("numBottles", config.NumBottles))

	bottles := make([]Bottle, config.NumBottles)

	// Pre-allocate bottle IDs to ensure uniqueness
	ids := make([]string, config.NumBottles)
	for i := 0; i < config.NumBottles; i++ {
		ids[i] = uuid.New().String()
	}

	// Generate bottles concurrently
	type bottleResult struct {
		index  int
		bottle Bottle
		err    error
	}

	resultChan := make(chan bottleResult, config.NumBottles)

	// Use worker pool for bottle generation
	workerCount := minInt(config.Workers, config.NumBottles)
	bottlesPerWorker := config.NumBottles / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * bottlesPerWorker
		end := start + bottlesPerWorker
		if worker == workerCount-1 {
			end = config.NumBottles // Last worker gets remaining bottles
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- bottleResult{index: i, err: ctx.Err()}
					return
				default:
					bottle := generateSingleBottle(i, ids[i])
					resultChan <- bottleResult{index: i, bottle: bottle, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumBottles; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during bottle generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate bottle %d: %w", result.index, result.err)
			}
			bottles[result.index] = result.bottle
		}
	}

	stats.BottlesGenerated = len(bottles)
	logger.Get().Info(ctx, "generated bottles successfully", logger.Int("count", len(bottles)))

	return bottles, nil
}

// generateSingleBottle creates a single bottle with the given index and ID.
func generateSingleBottle(index int, id string) Bottle {
	category, vintage := generateStyleAndVintage()

	regions := regionsByCategory[category]
	region := regions[getRandomInt(len(regions))]

	varietySets := varietiesByCategory[category]
	varieties := varietySets[getRandomInt(len(varietySets))]

	// Ratings skew toward the middle, with the occasional standout
	rating := 2.5 + getRandomFloat()*2.5

	name := region + " " + category + " #" + strconv.Itoa(index)

	return Bottle{
		ID:          id,
		Name:        name,
		Category:    category,
		Region:      region,
		Varieties:   varieties,
		Rating:      rating,
		Vintage:     vintage,
		PurchasedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// generateStyleAndVintage picks a category and a vintage spread so the cellar
// covers young, in-window, past-window and unknown-vintage populations.
func generateStyleAndVintage() (string, int) {
	year := time.Now().Year()
	switch getRandomInt(cellarStyleDivisor) {
	case caseYoungRed:
		return "red", year - (youngVintageMin + getRandomInt(youngVintageRange))
	case casePrimeRed:
		return "red", year - (primeVintageMin + getRandomInt(primeVintageRange))
	case caseOldRed:
		return "red", year - (oldVintageMin + getRandomInt(oldVintageRange))
	case caseCrispWhite:
		return "white", year - getRandomInt(3)
	case caseAgedWhite:
		return "white", year - (3 + getRandomInt(5))
	case caseSparkling:
		return "sparkling", year - getRandomInt(5)
	case caseDessert:
		return "dessert", year - (2 + getRandomInt(10))
	case caseMissingVintage:
		// Unknown vintage exercises the fail-open classification path
		return "red", 0
	default:
		return "red", year - getRandomInt(10)
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
