package worker

import (
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker's name used in logs.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithWeights sets the power weights applied when normalizing estimates.
func WithWeights(weights profile.Weights) Option {
	return func(w *InMemoryWorker) {
		w.weights = weights
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
