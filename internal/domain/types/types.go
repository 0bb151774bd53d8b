// Package types contains common types used across the application
package types

// Status is the readiness classification of a bottle.
type Status string

// Readiness statuses.
const (
	StatusHold  Status = "HOLD"
	StatusReady Status = "READY"
)

// Confidence is the tier attached to every classification and estimate.
type Confidence string

// Confidence tiers.
const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Readiness is the result of classifying a single bottle.
type Readiness struct {
	Status      Status     `json:"status"`
	WindowStart int        `json:"window_start"` // calendar year
	WindowEnd   int        `json:"window_end"`   // calendar year
	Confidence  Confidence `json:"confidence"`
	Reasons     []string   `json:"reasons"`               // 3-5 entries, concrete numbers
	Assumptions string     `json:"assumptions,omitempty"` // populated only at LOW confidence
}

// Slot is one position in an ordered lineup.
type Slot struct {
	Position    int     `json:"position"` // 1-based
	Label       string  `json:"label"`    // Opening, Main, Closing
	BottleID    string  `json:"bottle_id"`
	Name        string  `json:"name"`
	Power       int     `json:"power"`
	Pairing     float64 `json:"pairing_score"`
	Explanation string  `json:"pairing_explanation"`
}

// Violation is one detected monotonicity inversion within a bottle family:
// an older bottle classified HOLD while a younger one classified READY.
type Violation struct {
	Family      string `json:"family"`
	OlderID     string `json:"older_id"`
	OlderAge    int    `json:"older_age"`
	OlderStatus Status `json:"older_status"`
	YoungerID   string `json:"younger_id"`
	YoungerAge  int    `json:"younger_age"`
	YoungStatus Status `json:"younger_status"`
}
