package readiness

import (
	"sort"

	"github.com/okian/decant/internal/domain/types"
)

// Classified pairs one bottle's identity and age with its classification for
// cross-item validation.
type Classified struct {
	BottleID string
	Family   string
	Age      int
	Status   types.Status
}

// ValidateFamily checks a set of same-family classifications for
// monotonicity inversions: an older bottle classified HOLD while a younger
// one classified READY. The report is advisory; it never alters the
// classifications themselves. Cost is O(n log n): one sort by age, one scan.
func ValidateFamily(items []Classified) []types.Violation {
	if len(items) < 2 {
		return nil
	}

	sorted := make([]Classified, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Age < sorted[j].Age })

	var out []types.Violation
	// Walk from youngest to oldest carrying the youngest READY seen so far.
	// Any strictly older HOLD forms an inversion with that witness.
	var witness *Classified
	for i := range sorted {
		c := sorted[i]
		switch {
		case c.Status == types.StatusReady && witness == nil:
			witness = &sorted[i]
		case c.Status == types.StatusHold && witness != nil && c.Age > witness.Age:
			out = append(out, types.Violation{
				Family:      c.Family,
				OlderID:     c.BottleID,
				OlderAge:    c.Age,
				OlderStatus: c.Status,
				YoungerID:   witness.BottleID,
				YoungerAge:  witness.Age,
				YoungStatus: witness.Status,
			})
		}
	}
	return out
}
