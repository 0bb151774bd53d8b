package seeder

import (
	"fmt"
	"log"
)

// verifyResults checks the sampled classifications and the returned lineup
// for internal consistency.
func verifyResults(config *Config, readiness []ReadinessResponse, lineup []Slot) error {
	log.Println("verifying results...")

	if len(readiness) == 0 {
		return fmt.Errorf("no readiness samples to verify")
	}

	// Every classification is total: it must carry a status and reasons.
	for i, r := range readiness {
		if r.Status != "READY" && r.Status != "HOLD" {
			return fmt.Errorf("sample %d has unexpected status %q", i, r.Status)
		}
		if len(r.Reasons) == 0 {
			return fmt.Errorf("sample %d has no reasons", i)
		}
	}

	if len(lineup) > 0 {
		if err := verifyLineupOrdering(lineup); err != nil {
			log.Printf("lineup ordering warning: %v", err)
		} else {
			log.Println("lineup ordering verified")
		}
	}

	displayLineup(lineup, config.Verbose)
	displayReadinessBreakdown(readiness)

	log.Println("result verification completed")
	return nil
}

// verifyLineupOrdering checks the light-to-bold sequencing contract.
func verifyLineupOrdering(lineup []Slot) error {
	for i := 1; i < len(lineup); i++ {
		if lineup[i].Power < lineup[i-1].Power {
			// A single inversion is legal when it separates two tannic
			// bottles; more than one step of drop is not.
			if lineup[i-1].Power-lineup[i].Power > 1 {
				return fmt.Errorf("lineup not ascending: slot %d power %d after slot %d power %d",
					i, lineup[i].Power, i-1, lineup[i-1].Power)
			}
		}
		if lineup[i].Position != lineup[i-1].Position+1 {
			return fmt.Errorf("lineup positions not contiguous at slot %d", i)
		}
	}
	return nil
}

// displayLineup shows the lineup slots in serving order.
func displayLineup(lineup []Slot, verbose bool) {
	if len(lineup) == 0 {
		log.Println("lineup is empty")
		return
	}

	log.Printf("lineup (%d slots, light to bold):", len(lineup))
	for _, slot := range lineup {
		log.Printf("   %d. [%s] %s - power %d, pairing %.1f",
			slot.Position, slot.Label, slot.Name, slot.Power, slot.Pairing)
	}

	if verbose {
		first := lineup[0]
		last := lineup[len(lineup)-1]
		log.Printf(`lineup statistics:
   Opening power: %d
   Closing power: %d
`, first.Power, last.Power)
	}
}

// displayReadinessBreakdown shows the status distribution of the samples.
func displayReadinessBreakdown(readiness []ReadinessResponse) {
	var ready, hold int
	for _, r := range readiness {
		switch r.Status {
		case "READY":
			ready++
		case "HOLD":
			hold++
		}
	}

	log.Printf(`readiness breakdown:
   READY: %d
   HOLD: %d
`, ready, hold)
}
