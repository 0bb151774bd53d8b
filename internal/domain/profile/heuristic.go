package profile

import (
	"strings"
	"time"

	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/types"
)

// Category-level default profiles. Unknown categories fall through to the
// red defaults via model.ParseCategory.
var categoryDefaults = map[model.Category]Profile{
	model.CategoryRed:       {Body: 4, Tannin: 3, Acidity: 3, Oak: 2, Sweetness: 1, ABV: 13.5},
	model.CategoryWhite:     {Body: 2, Tannin: 0, Acidity: 4, Oak: 1, Sweetness: 1, ABV: 12.5},
	model.CategoryRose:      {Body: 2, Tannin: 1, Acidity: 4, Oak: 0, Sweetness: 1, ABV: 12.0},
	model.CategorySparkling: {Body: 1, Tannin: 0, Acidity: 5, Oak: 0, Sweetness: 1, ABV: 12.0},
	model.CategoryDessert:   {Body: 3, Tannin: 1, Acidity: 3, Oak: 1, Sweetness: 5, ABV: 11.0},
	model.CategoryFortified: {Body: 5, Tannin: 3, Acidity: 2, Oak: 3, Sweetness: 4, ABV: 19.0},
}

// Keyword tables used to adjust the category defaults. A single match bumps
// the dimension by one step, capped at the ordinal maximum.
var (
	highTanninKeywords = []string{"cabernet", "nebbiolo", "syrah", "shiraz", "tannat", "petite sirah", "mourvedre", "sagrantino"}
	highAcidKeywords   = []string{"riesling", "sauvignon blanc", "pinot noir", "chenin", "barbera", "gamay", "albarino"}
	oakKeywords        = []string{"chardonnay", "rioja", "reserva", "gran reserva", "barrique"}
	boldRegionKeywords = []string{"barolo", "barossa", "napa", "bordeaux", "priorat", "amarone"}
)

// Heuristic derives a usable Profile from coarse bottle metadata alone. It
// never fails: with nothing recognized it still returns the category
// defaults at LOW confidence. Side-effect free.
func Heuristic(category model.Category, region string, varieties []string, w Weights, now time.Time) Profile {
	p, ok := categoryDefaults[category]
	if !ok {
		p = categoryDefaults[model.CategoryRed]
	}

	haystack := strings.ToLower(region + " " + strings.Join(varieties, " "))
	matched := 0

	if containsAny(haystack, highTanninKeywords) {
		p.Tannin = clampOrdinal(p.Tannin + 1)
		matched++
	}
	if containsAny(haystack, highAcidKeywords) {
		p.Acidity = clampOrdinal(p.Acidity + 1)
		matched++
	}
	if containsAny(haystack, oakKeywords) {
		p.Oak = clampOrdinal(p.Oak + 1)
		matched++
	}
	if containsAny(haystack, boldRegionKeywords) {
		p.Body = clampOrdinal(p.Body + 1)
		p.Tannin = clampOrdinal(p.Tannin + 1)
		matched++
	}

	p.Source = SourceHeuristic
	if matched > 0 {
		p.Confidence = types.ConfidenceMedium
	} else {
		p.Confidence = types.ConfidenceLow
	}
	return p.Normalize(w, now)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
