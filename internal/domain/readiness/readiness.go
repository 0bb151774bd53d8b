// Package readiness classifies whether a bottle is inside its drink window.
//
// Classification is a pure function of (age, profile, category, asOf year):
// no ambient clock, no I/O, no randomness. Age strictly drives the threshold
// comparison, which makes the monotonicity guarantee hold by construction
// for bottles that share a profile.
package readiness

import (
	"fmt"

	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
	"github.com/okian/decant/internal/domain/types"
)

// Tier is the aging-potential bucket derived from power.
type Tier string

// Aging-potential tiers.
const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// Power thresholds for tier derivation.
const (
	lowTierMaxPower    = 3
	mediumTierMaxPower = 6
)

// Overshoot multiple of primeEnd at which confidence drops to LOW.
const overshootLowMultiple = 1.25

// window holds the age thresholds for one (category class, tier) cell.
type window struct {
	youngEnd int // ages below this classify HOLD
	primeEnd int // ages above this are past prime
}

// Age threshold tables. Structured categories (red, dessert, fortified) age
// longer than light ones (white, rose, sparkling).
var (
	structuredWindows = map[Tier]window{
		TierLow:    {youngEnd: 2, primeEnd: 8},
		TierMedium: {youngEnd: 3, primeEnd: 12},
		TierHigh:   {youngEnd: 5, primeEnd: 20},
	}
	lightWindows = map[Tier]window{
		TierLow:    {youngEnd: 1, primeEnd: 4},
		TierMedium: {youngEnd: 2, primeEnd: 6},
		TierHigh:   {youngEnd: 3, primeEnd: 10},
	}
)

// TierFor derives the aging-potential tier from a profile's power via fixed
// thresholds. This replaces any per-call subjective judgment with a
// deterministic lookup.
func TierFor(power int) Tier {
	switch {
	case power <= lowTierMaxPower:
		return TierLow
	case power <= mediumTierMaxPower:
		return TierMedium
	default:
		return TierHigh
	}
}

// windowFor selects the age thresholds for a category and tier, with a
// default branch so unknown input can never miss the table.
func windowFor(category model.Category, tier Tier) window {
	table := lightWindows
	if category.Structured() {
		table = structuredWindows
	}
	if w, ok := table[tier]; ok {
		return w
	}
	return table[TierMedium]
}

// Classify computes the readiness of one bottle as of asOfYear. It is total:
// every combination of inputs yields a result, and missing or nonsensical
// ages fail open to READY at LOW confidence rather than blocking a
// recommendation.
func Classify(b model.Bottle, p profile.Profile, asOfYear int) types.Readiness {
	tier := TierFor(p.Power)
	w := windowFor(b.Category, tier)

	age, known := b.AgeYears(asOfYear)
	if !known {
		return types.Readiness{
			Status:      types.StatusReady,
			WindowStart: asOfYear,
			WindowEnd:   asOfYear + w.primeEnd - w.youngEnd,
			Confidence:  types.ConfidenceLow,
			Reasons: []string{
				"no vintage or purchase date on record, so age is unknown",
				fmt.Sprintf("power %d puts aging potential in the %s tier", p.Power, tier),
				fmt.Sprintf("%s bottles in this tier typically drink well for %d years", b.Category, w.primeEnd-w.youngEnd),
			},
			Assumptions: "assumed to be within its drink window because no age could be derived",
		}
	}

	baseYear := asOfYear - age
	out := types.Readiness{
		WindowStart: baseYear + w.youngEnd,
		WindowEnd:   baseYear + w.primeEnd,
	}

	switch {
	case age < w.youngEnd:
		out.Status = types.StatusHold
		out.Confidence = types.ConfidenceHigh
		if age < 0 {
			out.Confidence = types.ConfidenceLow
			out.Assumptions = fmt.Sprintf("computed age is %d years; the vintage appears to be in the future", age)
		}
		out.Reasons = []string{
			fmt.Sprintf("at %d years old it has not reached the %d-year start of its window", age, w.youngEnd),
			fmt.Sprintf("power %d puts aging potential in the %s tier", p.Power, tier),
			fmt.Sprintf("as a %s it should enter its prime between %d and %d", b.Category, out.WindowStart, out.WindowEnd),
		}
	case age <= w.primeEnd:
		out.Status = types.StatusReady
		out.Confidence = windowConfidence(age, w)
		out.Reasons = []string{
			fmt.Sprintf("%d years old, inside its %d-%d year drink window", age, w.youngEnd, w.primeEnd),
			fmt.Sprintf("power %d puts aging potential in the %s tier", p.Power, tier),
			fmt.Sprintf("the %s window spans calendar years %d to %d", b.Category, out.WindowStart, out.WindowEnd),
			fmt.Sprintf("confidence is %s given its position in the window", out.Confidence),
		}
	default:
		out.Status = types.StatusReady
		overshoot := age - w.primeEnd
		out.Confidence = types.ConfidenceMedium
		if float64(age) >= float64(w.primeEnd)*overshootLowMultiple {
			out.Confidence = types.ConfidenceLow
			out.Assumptions = fmt.Sprintf("%d years past the %d-year prime end; condition depends heavily on storage", overshoot, w.primeEnd)
		}
		out.Reasons = []string{
			fmt.Sprintf("%d years old, %d years past the end of its prime window", age, overshoot),
			fmt.Sprintf("power %d puts aging potential in the %s tier", p.Power, tier),
			fmt.Sprintf("the %s window ended in %d; drink sooner rather than later", b.Category, out.WindowEnd),
			fmt.Sprintf("confidence downgraded to %s because of the overshoot", out.Confidence),
		}
	}
	return out
}

// windowConfidence is HIGH inside the window and MEDIUM in the boundary
// years where the window is just opening or closing.
func windowConfidence(age int, w window) types.Confidence {
	if age == w.youngEnd || age == w.primeEnd {
		return types.ConfidenceMedium
	}
	return types.ConfidenceHigh
}
