// Package profile defines the canonical attribute schema for a bottle and
// the deterministic power derivation shared by every component.
package profile

import (
	"math"
	"time"

	"github.com/okian/decant/internal/domain/types"
)

// Ordinal scale bounds for body/tannin/acidity/oak/sweetness.
const (
	OrdinalMin = 0
	OrdinalMax = 5
)

// Power bounds.
const (
	PowerMin = 1
	PowerMax = 10
)

// ABV normalization bounds: 8% maps to 0 and 16% to 10 on the power scale.
const (
	abvFloor   = 8.0
	abvCeil    = 16.0
	abvUnknown = 5.0 // midpoint contribution when ABV is not known
)

// Source records where a profile came from.
type Source string

// Profile provenance values.
const (
	SourceHeuristic Source = "HEURISTIC"
	SourceEstimated Source = "ESTIMATED"
)

// Weights are the power-formula coefficients. They were tuned by inspection,
// not derived from data, so they stay configuration rather than constants.
type Weights struct {
	Body     float64 `koanf:"body"`
	Tannin   float64 `koanf:"tannin"`
	Oak      float64 `koanf:"oak"`
	Strength float64 `koanf:"strength"`
}

// DefaultWeights returns the stock 0.3/0.3/0.2/0.2 tuning.
func DefaultWeights() Weights {
	return Weights{Body: 0.3, Tannin: 0.3, Oak: 0.2, Strength: 0.2}
}

// Profile is the normalized attribute vector for one bottle. Profiles are
// immutable value objects: Normalize returns a fresh copy, nothing mutates
// in place.
type Profile struct {
	Body      int     `json:"body"`      // 0-5
	Tannin    int     `json:"tannin"`    // 0-5
	Acidity   int     `json:"acidity"`   // 0-5
	Oak       int     `json:"oak"`       // 0-5
	Sweetness int     `json:"sweetness"` // 0-5
	ABV       float64 `json:"abv"`       // estimated strength, 0 means unknown

	// Power is always derived from the fields above via Weights; an
	// externally supplied value is discarded by Normalize.
	Power int `json:"power"` // 1-10

	Confidence types.Confidence `json:"confidence"`
	Source     Source           `json:"source"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// clampOrdinal forces a dimension into [OrdinalMin, OrdinalMax].
func clampOrdinal(v int) int {
	if v < OrdinalMin {
		return OrdinalMin
	}
	if v > OrdinalMax {
		return OrdinalMax
	}
	return v
}

// abvScore maps an ABV percentage onto the 0-10 power scale.
func abvScore(abv float64) float64 {
	if abv <= 0 {
		return abvUnknown
	}
	s := (abv - abvFloor) / (abvCeil - abvFloor) * 10
	return math.Max(0, math.Min(10, s))
}

// ComputePower derives the 1-10 intensity score from the structural
// dimensions. It is a pure function: identical (body, tannin, oak, abv)
// always yield identical power for the same weights.
func ComputePower(body, tannin, oak int, abv float64, w Weights) int {
	raw := w.Body*float64(clampOrdinal(body)*2) +
		w.Tannin*float64(clampOrdinal(tannin)*2) +
		w.Oak*float64(clampOrdinal(oak)*2) +
		w.Strength*abvScore(abv)
	p := int(math.Round(math.Max(PowerMin, math.Min(PowerMax, raw))))
	return p
}

// Normalize returns a copy with every ordinal clamped into range, negative
// ABV zeroed, and Power recomputed from the normalized fields. This is the
// schema-validation gate for externally estimated profiles: out-of-range
// values are clamped rather than rejected, and the external Power is never
// trusted.
func (p Profile) Normalize(w Weights, now time.Time) Profile {
	n := p
	n.Body = clampOrdinal(p.Body)
	n.Tannin = clampOrdinal(p.Tannin)
	n.Acidity = clampOrdinal(p.Acidity)
	n.Oak = clampOrdinal(p.Oak)
	n.Sweetness = clampOrdinal(p.Sweetness)
	if n.ABV < 0 {
		n.ABV = 0
	}
	switch n.Confidence {
	case types.ConfidenceLow, types.ConfidenceMedium, types.ConfidenceHigh:
	default:
		n.Confidence = types.ConfidenceLow
	}
	if n.Source != SourceEstimated {
		n.Source = SourceHeuristic
	}
	n.Power = ComputePower(n.Body, n.Tannin, n.Oak, n.ABV, w)
	n.UpdatedAt = now
	return n
}
