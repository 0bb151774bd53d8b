// Package worker defines worker contracts for asynchronous profile
// estimation and cellar updates.
package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/decant/internal/adapters/mq/queue"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/pkg/logger"
	"github.com/okian/decant/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
// Using the model.EstimateJob type for consistency.
type Job = model.EstimateJob

// Cellar is the slice of the repository workers need: resolve a job's bottle
// and persist the finished profile.
type Cellar interface {
	GetBottle(ctx context.Context, id string) (model.Bottle, error)
	SetProfile(ctx context.Context, id string, p profile.Profile) (bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes estimation jobs and writes profiles using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker, letting an in-flight job
	// finish first.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing estimation jobs.
type InMemoryWorker struct {
	queue     Queue
	estimator profile.Estimator
	cellar    Cellar
	weights   profile.Weights
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, est profile.Estimator, cellar Cellar, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		estimator: est,
		cellar:    cellar,
		weights:   profile.DefaultWeights(),
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes jobs until the context is canceled or the queue closes.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// process runs one estimation job end to end. Failures are logged and
// counted, never retried here: the job can be re-enqueued by the caller
// because its ID was unrecorded from the dedupe cache on failure paths that
// warrant a retry.
func (w *InMemoryWorker) process(ctx context.Context, job Job) {
	start := time.Now()

	bottle, err := w.cellar.GetBottle(ctx, job.BottleID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "bottle_missing")
		w.logger.Warn(ctx, "bottle vanished before estimation",
			logger.String("jobID", job.JobID),
			logger.String("bottleID", job.BottleID),
		)
		return
	}

	estimated, err := w.estimator.Estimate(ctx, bottle)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "estimate_failed")
		w.logger.Warn(ctx, "estimation failed",
			logger.String("jobID", job.JobID),
			logger.String("bottleID", job.BottleID),
			logger.Error(err),
		)
		return
	}

	// Clamp and recompute power locally; external power is never trusted.
	normalized := estimated.Normalize(w.weights, time.Now())

	if ok, err := w.cellar.SetProfile(ctx, job.BottleID, normalized); err != nil || !ok {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "profile_write_failed")
		return
	}

	metrics.RecordEstimateCompleted()
	metrics.RecordEstimateLatency(float64(time.Since(start).Milliseconds()))
	w.logger.Debug(ctx, "profile estimated",
		logger.String("bottleID", job.BottleID),
		logger.Int("power", normalized.Power),
	)
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(workerShutdownTimeout):
		return nil
	}
}

// WorkerPool runs a fixed set of workers over one queue.
type WorkerPool struct {
	workers []*InMemoryWorker
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewWorkerPool creates count workers sharing the queue, estimator and
// cellar.
func NewWorkerPool(count int, q *queue.InMemoryQueue, est profile.Estimator, cellar Cellar, opts ...Option) *WorkerPool {
	if count < 1 {
		count = 1
	}
	p := &WorkerPool{
		workers: make([]*InMemoryWorker, 0, count),
		logger:  logger.Get().Named("workerpool"),
	}
	for i := 0; i < count; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers = append(p.workers, NewInMemoryWorker(q, est, cellar, workerOpts...))
	}
	return p
}

// Start launches every worker goroutine.
func (p *WorkerPool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	metrics.UpdateWorkerCount(len(p.workers))
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(runCtx)
		}(w)
	}
}

// Stop shuts the pool down, waiting up to the pool timeout for workers to
// drain.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(poolShutdownTimeout):
		p.logger.Warn(context.Background(), "worker pool stop timed out")
	}
	metrics.UpdateWorkerCount(0)
}
