package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Writes hash the bottle id onto a shard so concurrent intake and profile
// backfill never contend on one lock. Reads that span shards (List, Family)
// merge per-shard snapshots and sort by (AddedAt, ID) for deterministic
// output.

// Default store configuration constants.
const defaultShardCount = 8

type shard struct {
	mu      sync.RWMutex
	records map[string]Record
}

// ShardStore implements Store over a fixed set of shards.
type ShardStore struct {
	shards []*shard
}

// Option applies a configuration option to the ShardStore.
type Option func(*storeConfig)

type storeConfig struct {
	shardCount int
}

// WithShardCount sets the number of shards. Values below one fall back to
// the default.
func WithShardCount(n int) Option {
	return func(c *storeConfig) {
		if n > 0 {
			c.shardCount = n
		}
	}
}

// NewShardStore creates a sharded in-memory cellar store.
func NewShardStore(_ context.Context, opts ...Option) *ShardStore {
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &ShardStore{shards: make([]*shard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]Record)}
	}
	metrics.UpdateRepositoryShardCount(cfg.shardCount)
	return s
}

func (s *ShardStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Put inserts or replaces a bottle together with its profile.
func (s *ShardStore) Put(_ context.Context, b model.Bottle, p profile.Profile) error {
	start := time.Now()
	sh := s.shardFor(b.ID)
	sh.mu.Lock()
	sh.records[b.ID] = Record{Bottle: b, Profile: p}
	sh.mu.Unlock()
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateRepositoryRecordsTotal(s.Count(context.Background()))
	return nil
}

// Get returns the record for a bottle id.
func (s *ShardStore) Get(_ context.Context, id string) (Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(id)
	sh.mu.RLock()
	rec, ok := sh.records[id]
	sh.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// SetProfile replaces the cached profile for an existing bottle.
func (s *ShardStore) SetProfile(_ context.Context, id string, p profile.Profile) (bool, error) {
	start := time.Now()
	sh := s.shardFor(id)
	sh.mu.Lock()
	rec, ok := sh.records[id]
	if ok {
		rec.Profile = p
		sh.records[id] = rec
	}
	sh.mu.Unlock()
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	return ok, nil
}

// List returns every record in deterministic (AddedAt, ID) order.
func (s *ShardStore) List(_ context.Context) ([]Record, error) {
	out := s.snapshot(func(Record) bool { return true })
	return out, nil
}

// Family returns every record sharing the given family key.
func (s *ShardStore) Family(_ context.Context, key string) ([]Record, error) {
	out := s.snapshot(func(r Record) bool { return r.Bottle.FamilyKey() == key })
	return out, nil
}

// Count returns the number of bottles tracked in the cellar.
func (s *ShardStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.records)
		sh.mu.RUnlock()
	}
	return total
}

// snapshot copies matching records out of every shard and sorts them.
func (s *ShardStore) snapshot(match func(Record) bool) []Record {
	start := time.Now()
	var out []Record
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.records {
			if match(rec) {
				out = append(out, rec)
			}
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Bottle.AddedAt.Equal(out[j].Bottle.AddedAt) {
			return out[i].Bottle.AddedAt.Before(out[j].Bottle.AddedAt)
		}
		return out[i].Bottle.ID < out[j].Bottle.ID
	})
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	return out
}
