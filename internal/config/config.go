// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Tuning that was chosen by inspection (power weights, lineup weights)
//   stays overridable here rather than hard-coded in the engine.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EstimateQueueSize bounds the in-memory estimation queue.
	EstimateQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of estimation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the cellar store.
	ShardCount int `koanf:"shard_count"`

	// MaxLineupSize caps the desired_count accepted by POST /lineup.
	MaxLineupSize int `koanf:"max_lineup_size"`

	// EstimateLatencyMinMS and EstimateLatencyMaxMS bound the simulated
	// external estimation latency.
	EstimateLatencyMinMS int `koanf:"estimate_latency_min_ms"`
	EstimateLatencyMaxMS int `koanf:"estimate_latency_max_ms"`

	// PowerWeights are the power-formula coefficients.
	PowerWeights PowerWeights `koanf:"power_weights"`

	// ReadinessWeight is the composite-score bonus for READY bottles.
	ReadinessWeight float64 `koanf:"readiness_weight"`

	// RatingWeight and RatingThreshold control the quality-signal bonus.
	RatingWeight    float64 `koanf:"rating_weight"`
	RatingThreshold float64 `koanf:"rating_threshold"`
}

// PowerWeights mirrors profile.Weights for koanf unmarshaling.
type PowerWeights struct {
	Body     float64 `koanf:"body"`
	Tannin   float64 `koanf:"tannin"`
	Oak      float64 `koanf:"oak"`
	Strength float64 `koanf:"strength"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		EstimateQueueSize:    10_000,
		WorkerCount:          runtime.NumCPU() * 2,
		DedupeSize:           50_000,
		ShardCount:           8,
		MaxLineupSize:        12,
		EstimateLatencyMinMS: 80,
		EstimateLatencyMaxMS: 150,
		PowerWeights:         PowerWeights{Body: 0.3, Tannin: 0.3, Oak: 0.2, Strength: 0.2},
		ReadinessWeight:      30,
		RatingWeight:         15,
		RatingThreshold:      4.0,
	}
}
