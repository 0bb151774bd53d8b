// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/okian/decant/internal/adapters/mq/queue"
	workerpool "github.com/okian/decant/internal/adapters/mq/worker"
	repository "github.com/okian/decant/internal/adapters/repository"
	"github.com/okian/decant/internal/domain/dedupe"
	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/lineup"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/pairing"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/internal/domain/readiness"
	"github.com/okian/decant/internal/domain/types"
	"github.com/okian/decant/pkg/logger"
	"github.com/okian/decant/pkg/metrics"
)

// Service implements the API dependencies for the cellar system. The engine
// packages stay pure; Service owns the stateful shell around them: the
// cellar store, the idempotency cache, and the estimation pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	cellar     repository.Store
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	estimator  profile.Estimator
	workerPool *workerpool.WorkerPool
	builder    *lineup.Builder

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	weights     profile.Weights
	// Simulated estimation latency bounds
	estimateMinLatency time.Duration
	estimateMaxLatency time.Duration
	// Lineup tuning
	readinessWeight float64
	ratingWeight    float64
	ratingThreshold float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of estimation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the estimation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of cellar store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPowerWeights sets the power-formula coefficients.
func WithPowerWeights(w profile.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithEstimateLatencyRange sets the simulated estimation latency range.
func WithEstimateLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Service) {
		if minLatency > 0 && maxLatency > minLatency {
			s.estimateMinLatency = minLatency
			s.estimateMaxLatency = maxLatency
		}
	}
}

// WithLineupTuning sets the composite-score weights for lineup building.
func WithLineupTuning(readinessWeight, ratingWeight, ratingThreshold float64) Option {
	return func(s *Service) {
		if readinessWeight >= 0 {
			s.readinessWeight = readinessWeight
		}
		if ratingWeight >= 0 {
			s.ratingWeight = ratingWeight
		}
		if ratingThreshold > 0 {
			s.ratingThreshold = ratingThreshold
		}
	}
}

// WithEstimator overrides the estimation collaborator, e.g. for tests.
func WithEstimator(est profile.Estimator) Option {
	return func(s *Service) {
		if est != nil {
			s.estimator = est
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:        runtime.NumCPU() * 2,
		queueSize:          10000,
		dedupeSize:         50000,
		shardCount:         8,
		weights:            profile.DefaultWeights(),
		estimateMinLatency: 80 * time.Millisecond,
		estimateMaxLatency: 150 * time.Millisecond,
		readinessWeight:    30,
		ratingWeight:       15,
		ratingThreshold:    4.0,
		stopCh:             make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting cellar service...")

	s.cellar = repository.NewShardStore(ctx, repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	if s.estimator == nil {
		s.estimator = profile.NewInMemoryEstimator(
			profile.WithWeights(s.weights),
			profile.WithLatencyRange(s.estimateMinLatency, s.estimateMaxLatency),
		)
	}
	s.builder = lineup.NewBuilder(
		lineup.WithReadinessWeight(s.readinessWeight),
		lineup.WithRatingBonus(s.ratingWeight, s.ratingThreshold),
	)

	q, _ := s.jobQueue.(*jobqueue.InMemoryQueue)
	s.workerPool = workerpool.NewWorkerPool(s.workerCount, q, s.estimator, s,
		workerpool.WithWeights(s.weights),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "cellar service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping cellar service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "cellar service stopped")
}

// SeenAndRecord atomically checks if a bottle id was seen and records it if
// not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordBottleDuplicate()
	}
	return seen
}

// Unrecord removes a bottle ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// AddBottle stores a bottle with an immediate heuristic profile and enqueues
// a background estimation job for a richer one. The caller is never blocked
// on the external estimator: a usable profile exists from the first moment.
func (s *Service) AddBottle(ctx context.Context, b model.Bottle) (bool, error) {
	if b.ID == "" {
		return false, fmt.Errorf("add bottle: %w", ErrMissingID)
	}
	if b.AddedAt.IsZero() {
		b.AddedAt = time.Now()
	}
	b.Category = model.ParseCategory(string(b.Category))

	heuristic := profile.Heuristic(b.Category, b.Region, b.Varieties, s.weights, time.Now())
	if err := s.cellar.Put(ctx, b, heuristic); err != nil {
		return false, fmt.Errorf("add bottle: %w", err)
	}
	metrics.RecordBottleAdded()
	metrics.UpdateTotalBottles(s.cellar.Count(ctx))

	job := model.EstimateJob{
		JobID:      "estimate-" + b.ID,
		BottleID:   b.ID,
		EnqueuedAt: time.Now(),
	}
	queued := s.jobQueue.Enqueue(ctx, job)
	if !queued {
		// The heuristic profile still serves; backfill can be retried.
		s.logger.Warn(ctx, "estimation queue full, keeping heuristic profile",
			logger.String("bottleID", b.ID),
		)
	}
	return queued, nil
}

// GetBottle returns the bottle for an id. Part of the worker.Cellar contract.
func (s *Service) GetBottle(ctx context.Context, id string) (model.Bottle, error) {
	rec, err := s.cellar.Get(ctx, id)
	if err != nil {
		return model.Bottle{}, err
	}
	return rec.Bottle, nil
}

// SetProfile replaces a bottle's cached profile. Part of the worker.Cellar
// contract.
func (s *Service) SetProfile(ctx context.Context, id string, p profile.Profile) (bool, error) {
	return s.cellar.SetProfile(ctx, id, p)
}

// Bottle returns the stored record for an id.
func (s *Service) Bottle(ctx context.Context, id string) (repository.Record, error) {
	return s.cellar.Get(ctx, id)
}

// Readiness classifies one bottle as of the given year.
func (s *Service) Readiness(ctx context.Context, id string, asOfYear int) (types.Readiness, error) {
	rec, err := s.cellar.Get(ctx, id)
	if err != nil {
		return types.Readiness{}, err
	}
	r := readiness.Classify(rec.Bottle, rec.Profile, asOfYear)
	metrics.RecordClassification(string(r.Status))
	return r, nil
}

// Pair scores one bottle against a meal description.
func (s *Service) Pair(ctx context.Context, id string, fc food.Context) (pairing.Result, error) {
	rec, err := s.cellar.Get(ctx, id)
	if err != nil {
		return pairing.Result{}, err
	}
	res := pairing.Score(rec.Profile, fc)
	metrics.RecordPairingScore(res.Score)
	return res, nil
}

// BuildLineup assembles an ordered lineup from the requested bottles, or
// from the whole cellar when ids is empty. Unknown ids are skipped rather
// than failing the build.
func (s *Service) BuildLineup(ctx context.Context, ids []string, desiredCount int, fc *food.Context, asOfYear int) ([]types.Slot, error) {
	var records []repository.Record
	if len(ids) == 0 {
		all, err := s.cellar.List(ctx)
		if err != nil {
			return nil, err
		}
		records = all
	} else {
		for _, id := range ids {
			rec, err := s.cellar.Get(ctx, id)
			if err != nil {
				continue
			}
			records = append(records, rec)
		}
	}

	pool := make([]lineup.Candidate, 0, len(records))
	for _, rec := range records {
		pool = append(pool, lineup.Candidate{
			Bottle:    rec.Bottle,
			Profile:   rec.Profile,
			Readiness: readiness.Classify(rec.Bottle, rec.Profile, asOfYear),
		})
	}

	slots := s.builder.Build(pool, desiredCount, fc)
	metrics.RecordLineupBuilt(len(slots))
	return slots, nil
}

// FamilyReport runs the consistency validator over every bottle in a family
// as of the given year. The report is advisory: violations indicate stale or
// inconsistent cached classifications, not a service failure.
func (s *Service) FamilyReport(ctx context.Context, familyKey string, asOfYear int) ([]types.Violation, error) {
	records, err := s.cellar.Family(ctx, familyKey)
	if err != nil {
		return nil, err
	}

	classified := make([]readiness.Classified, 0, len(records))
	for _, rec := range records {
		age, known := rec.Bottle.AgeYears(asOfYear)
		if !known {
			continue // ageless bottles cannot invert anything
		}
		r := readiness.Classify(rec.Bottle, rec.Profile, asOfYear)
		classified = append(classified, readiness.Classified{
			BottleID: rec.Bottle.ID,
			Family:   familyKey,
			Age:      age,
			Status:   r.Status,
		})
	}

	violations := readiness.ValidateFamily(classified)
	if len(violations) > 0 {
		metrics.RecordViolationsDetected(len(violations))
		s.logger.Warn(ctx, "monotonicity violations detected",
			logger.String("family", familyKey),
			logger.Int("count", len(violations)),
		)
	}
	return violations, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalBottles := s.cellar.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalBottles"] = totalBottles

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalBottles(totalBottles)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
