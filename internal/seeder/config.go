package seeder

import "time"

// Config holds configuration for the cellar seeding run
type Config struct {
	BaseURL     string        // Base URL of the service
	NumBottles  int           // Number of bottles to generate
	LineupSize  int           // Desired lineup size to request afterwards
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated bottles
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
	SampleCount int           // Number of bottles to spot-check readiness for
}

// Bottle represents a bottle submission payload
type Bottle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Region      string   `json:"region"`
	Varieties   []string `json:"varieties"`
	Rating      float64  `json:"rating"`
	Vintage     int      `json:"vintage"`
	PurchasedAt string   `json:"purchased_at,omitempty"`
}

// Slot represents one lineup position returned by the service
type Slot struct {
	Position int     `json:"position"`
	Label    string  `json:"label"`
	BottleID string  `json:"bottle_id"`
	Name     string  `json:"name"`
	Power    int     `json:"power"`
	Pairing  float64 `json:"pairing_score"`
}

// AckResponse represents the response from bottle submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	ID        string `json:"id"`
}

// ReadinessResponse is the readiness classification for one bottle
type ReadinessResponse struct {
	Status      string   `json:"status"`
	WindowStart int      `json:"window_start"`
	WindowEnd   int      `json:"window_end"`
	Confidence  string   `json:"confidence"`
	Reasons     []string `json:"reasons"`
}

// Stats holds seeding run statistics
type Stats struct {
	BottlesGenerated  int
	BottlesSubmitted  int
	BottlesSuccessful int
	BottlesDuplicate  int
	BottlesFailed     int
	ReadinessChecked  int
	LineupSlots       int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
