// Package pairing scores compatibility between a bottle profile and a meal.
//
// The rule table is deliberately small and auditable: every delta is traced
// to one (profile-dimension, food-attribute) pair so the explanation can
// always cite the deciding factors. Nothing here is machine-learned.
package pairing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/profile"
)

// Baseline score before any rule fires, and the clamp bounds.
const (
	baselineScore = 50.0
	minScore      = 0.0
	maxScore      = 100.0
)

// Rule coefficients. Medium levels apply half the high-level delta.
const (
	fatTanninFactor    = 3.0
	fatBodyFactor      = 2.0
	tomatoAcidFactor   = 3.0
	tomatoAcidPenalty  = -8.0
	spiceTanninFactor  = -2.0
	spiceStrengthScale = -2.0
	spiceSweetFactor   = 3.0
	smokeOakFactor     = 3.0
	delicatePenalty    = -4.0
	delicateBodyScale  = -3.0
	spiceABVPivot      = 12.0 // ABV above this burns with hot food
)

// Result is a pairing score with its natural-language justification.
type Result struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// contribution records one fired rule for the explanation generator.
type contribution struct {
	delta  float64
	phrase string
}

// Score rates how well a profile suits a meal, 0-100. Deterministic and
// side-effect free; identical inputs always produce identical output.
func Score(p profile.Profile, fc food.Context) Result {
	fc = fc.Normalize()
	score := baselineScore
	var contribs []contribution

	add := func(delta float64, phrase string) {
		if delta == 0 {
			return
		}
		score += delta
		contribs = append(contribs, contribution{delta: delta, phrase: phrase})
	}

	// Fat rewards tannin and body: tannin cuts fat.
	if f := levelFactor(fc.Fat); f > 0 {
		add(f*fatTanninFactor*float64(p.Tannin), fmt.Sprintf("tannin %d cuts through the %s-fat dish", p.Tannin, fc.Fat))
		add(f*fatBodyFactor*float64(p.Body), fmt.Sprintf("body %d stands up to the rich food", p.Body))
	}

	// Tomato sauce wants acidity; low acidity clashes with it.
	if fc.Sauce == food.SauceTomato {
		if p.Acidity >= 3 {
			add(tomatoAcidFactor*float64(p.Acidity), fmt.Sprintf("acidity %d balances the tomato sauce", p.Acidity))
		} else {
			add(tomatoAcidPenalty, fmt.Sprintf("acidity %d is too low for a tomato-based sauce", p.Acidity))
		}
	}

	// Heat amplifies tannin bitterness and alcohol burn, sweetness soothes.
	if f := levelFactor(fc.Spice); f > 0 {
		add(f*spiceTanninFactor*float64(p.Tannin), fmt.Sprintf("tannin %d reads bitter against %s spice", p.Tannin, fc.Spice))
		if p.ABV > spiceABVPivot {
			add(f*spiceStrengthScale*(p.ABV-spiceABVPivot), fmt.Sprintf("%.1f%% alcohol amplifies the heat", p.ABV))
		}
		add(f*spiceSweetFactor*float64(p.Sweetness), fmt.Sprintf("sweetness %d tames the %s spice", p.Sweetness, fc.Spice))
	}

	// Smoke echoes oak.
	if f := levelFactor(fc.Smoke); f > 0 {
		add(f*smokeOakFactor*float64(p.Oak), fmt.Sprintf("oak %d echoes the %s smoke", p.Oak, fc.Smoke))
	}

	// Delicate mains are overpowered by heavy structure.
	if fc.Primary == food.PrimaryFish || fc.Primary == food.PrimaryVegetarian {
		if p.Tannin >= 4 {
			add(delicatePenalty*float64(p.Tannin-3), fmt.Sprintf("tannin %d overpowers %s", p.Tannin, fc.Primary))
		}
		if p.Body >= 4 {
			add(delicateBodyScale*float64(p.Body-3), fmt.Sprintf("body %d is heavy for %s", p.Body, fc.Primary))
		}
	}

	score = math.Max(minScore, math.Min(maxScore, score))
	return Result{Score: score, Explanation: explain(contribs)}
}

// levelFactor maps low/medium/high onto 0/0.5/1 rule scaling.
func levelFactor(l food.Level) float64 {
	switch l {
	case food.LevelHigh:
		return 1.0
	case food.LevelMedium:
		return 0.5
	default:
		return 0
	}
}

// explain renders the one or two largest-magnitude contributions as a short
// sentence. With no fired rules the pairing is neutral by definition.
func explain(contribs []contribution) string {
	if len(contribs) == 0 {
		return "an even-handed match with no strong interactions either way"
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return math.Abs(contribs[i].delta) > math.Abs(contribs[j].delta)
	})
	top := contribs
	if len(top) > 2 {
		top = top[:2]
	}
	phrases := make([]string, len(top))
	for i, c := range top {
		phrases[i] = c.phrase
	}
	return strings.Join(phrases, "; ")
}
