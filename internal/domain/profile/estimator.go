package profile

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/types"
)

// Default estimator configuration constants.
const (
	defaultMinLatency = 80 * time.Millisecond
	defaultMaxLatency = 150 * time.Millisecond
	defaultRandomSeed = 42
)

// Estimator is the contract toward the external attribute-estimation
// service. Implementations may call out to a text/vision generation service;
// callers must normalize the result before trusting it.
type Estimator interface {
	// Estimate computes a profile, honoring ctx for cancellation.
	Estimate(ctx context.Context, b model.Bottle) (Profile, error)
}

// Option applies a configuration option to the InMemoryEstimator.
type Option func(*InMemoryEstimator)

// WithLatencyRange sets the simulated latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(e *InMemoryEstimator) {
		if minLatency > 0 && maxLatency > minLatency {
			e.minLatency = minLatency
			e.maxLatency = maxLatency
		}
	}
}

// WithWeights sets the power weights applied when normalizing estimates.
func WithWeights(w Weights) Option {
	return func(e *InMemoryEstimator) {
		e.weights = w
	}
}

// InMemoryEstimator implements Estimator with simulated service latency.
type InMemoryEstimator struct {
	weights    Weights
	minLatency time.Duration
	maxLatency time.Duration
	// Random seed only drives latency jitter; profile content stays
	// deterministic per bottle. rand.Rand is not goroutine-safe and the
	// worker pool shares one estimator, so the mutex serializes draws.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewInMemoryEstimator creates a new in-memory estimator with configuration options.
func NewInMemoryEstimator(opts ...Option) *InMemoryEstimator {
	e := &InMemoryEstimator{
		weights:    DefaultWeights(),
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible testing
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns a profile for the given bottle. The content is the
// heuristic profile upgraded to ESTIMATED/HIGH, which keeps the simulated
// collaborator deterministic while exercising the full normalization path.
func (e *InMemoryEstimator) Estimate(ctx context.Context, b model.Bottle) (Profile, error) {
	e.rngMu.Lock()
	jitter := e.rng.Int63n(int64(e.maxLatency - e.minLatency))
	e.rngMu.Unlock()
	latency := e.minLatency + time.Duration(jitter)
	select {
	case <-ctx.Done():
		return Profile{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-time.After(latency):
	}

	p := Heuristic(b.Category, b.Region, b.Varieties, e.weights, time.Now())
	p.Source = SourceEstimated
	p.Confidence = types.ConfidenceHigh
	return p.Normalize(e.weights, time.Now()), nil
}
