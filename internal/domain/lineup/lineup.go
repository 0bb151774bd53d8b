// Package lineup selects and orders bottles for a single tasting session.
//
// The build is deterministic for identical inputs: scoring uses fixed
// weights, ties break on rating then power then insertion order, and the
// sequencing refinement is a single bounded pass, not a search.
package lineup

import (
	"fmt"
	"sort"

	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/pairing"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/internal/domain/types"
)

// Composite score weights and thresholds.
const (
	defaultReadinessWeight = 30.0
	defaultRatingWeight    = 15.0
	defaultRatingThreshold = 4.0
	highTanninThreshold    = 4 // adjacency smoothing kicks in at this tannin
)

// Positional labels.
const (
	labelOpening = "Opening"
	labelMain    = "Main"
	labelClosing = "Closing"
)

// Candidate is one pool entry: a bottle, its profile, and its readiness as
// of the session date.
type Candidate struct {
	Bottle    model.Bottle
	Profile   profile.Profile
	Readiness types.Readiness
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithReadinessWeight overrides the composite-score weight of being READY.
func WithReadinessWeight(w float64) Option {
	return func(b *Builder) {
		if w >= 0 {
			b.readinessWeight = w
		}
	}
}

// WithRatingBonus overrides the quality-signal bonus and its threshold.
func WithRatingBonus(weight, threshold float64) Option {
	return func(b *Builder) {
		if weight >= 0 {
			b.ratingWeight = weight
		}
		if threshold > 0 {
			b.ratingThreshold = threshold
		}
	}
}

// Builder assembles ordered lineups from candidate pools.
type Builder struct {
	readinessWeight float64
	ratingWeight    float64
	ratingThreshold float64
}

// NewBuilder creates a Builder with default composite weights.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		readinessWeight: defaultReadinessWeight,
		ratingWeight:    defaultRatingWeight,
		ratingThreshold: defaultRatingThreshold,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// scored carries the composite score alongside the candidate's pool index
// for the deterministic tie-break.
type scored struct {
	Candidate
	composite float64
	pairing   pairing.Result
	index     int
}

// Build selects and orders up to desiredCount bottles. A pool smaller than
// desiredCount yields as many slots as available; an empty pool yields an
// empty lineup, never an error.
func (b *Builder) Build(pool []Candidate, desiredCount int, fc *food.Context) []types.Slot {
	if desiredCount <= 0 || len(pool) == 0 {
		return []types.Slot{}
	}

	eligible := filterEligible(pool)

	ranked := make([]scored, 0, len(eligible))
	for i, c := range eligible {
		s := scored{Candidate: c, index: i}
		if c.Readiness.Status == types.StatusReady {
			s.composite += b.readinessWeight
		}
		if c.Bottle.Rating >= b.ratingThreshold {
			s.composite += b.ratingWeight
		}
		if fc != nil {
			s.pairing = pairing.Score(c.Profile, *fc)
			s.composite += s.pairing.Score
		}
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].composite != ranked[j].composite {
			return ranked[i].composite > ranked[j].composite
		}
		if ranked[i].Bottle.Rating != ranked[j].Bottle.Rating {
			return ranked[i].Bottle.Rating > ranked[j].Bottle.Rating
		}
		if ranked[i].Profile.Power != ranked[j].Profile.Power {
			return ranked[i].Profile.Power < ranked[j].Profile.Power
		}
		return ranked[i].index < ranked[j].index
	})

	if len(ranked) > desiredCount {
		ranked = ranked[:desiredCount]
	}

	// Light-to-bold progression across the session.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Profile.Power != ranked[j].Profile.Power {
			return ranked[i].Profile.Power < ranked[j].Profile.Power
		}
		return ranked[i].index < ranked[j].index
	})

	smoothAdjacency(ranked)

	slots := make([]types.Slot, len(ranked))
	for i, s := range ranked {
		slots[i] = types.Slot{
			Position:    i + 1,
			Label:       labelFor(i, len(ranked)),
			BottleID:    s.Bottle.ID,
			Name:        s.Bottle.Name,
			Power:       s.Profile.Power,
			Pairing:     s.pairing.Score,
			Explanation: slotExplanation(s, fc),
		}
	}
	return slots
}

// filterEligible drops HOLD bottles unless that would empty the pool, in
// which case the full pool stays in play (fail open).
func filterEligible(pool []Candidate) []Candidate {
	ready := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Readiness.Status == types.StatusReady {
			ready = append(ready, c)
		}
	}
	if len(ready) == 0 {
		return pool
	}
	return ready
}

// smoothAdjacency breaks up consecutive high-tannin pairs with at most one
// local swap per pair, in a single left-to-right pass. The swap is skipped
// when no neighbor can break the pair, so the pass never loops.
func smoothAdjacency(seq []scored) {
	for i := 0; i+1 < len(seq); i++ {
		if seq[i].Profile.Tannin < highTanninThreshold || seq[i+1].Profile.Tannin < highTanninThreshold {
			continue
		}
		// Prefer pulling a softer bottle from the right; fall back to the
		// left neighbor.
		if i+2 < len(seq) && seq[i+2].Profile.Tannin < highTanninThreshold {
			seq[i+1], seq[i+2] = seq[i+2], seq[i+1]
		} else if i > 0 && seq[i-1].Profile.Tannin < highTanninThreshold {
			seq[i-1], seq[i] = seq[i], seq[i-1]
		}
	}
}

// labelFor assigns first/middle/last semantics.
func labelFor(i, n int) string {
	switch {
	case n == 1:
		return labelMain
	case i == 0:
		return labelOpening
	case i == n-1:
		return labelClosing
	default:
		return labelMain
	}
}

// slotExplanation prefers the pairing justification; without a food context
// it falls back to a readiness note so the explanation is never empty.
func slotExplanation(s scored, fc *food.Context) string {
	if fc != nil && s.pairing.Explanation != "" {
		return s.pairing.Explanation
	}
	if len(s.Readiness.Reasons) > 0 {
		return s.Readiness.Reasons[0]
	}
	return fmt.Sprintf("power %d fits this point in the progression", s.Profile.Power)
}
