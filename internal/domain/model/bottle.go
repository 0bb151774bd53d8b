// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Category is the closed set of bottle categories. Threshold lookups key on
// this enum rather than free-text strings so an unknown value always hits a
// default branch.
type Category string

// Known categories.
const (
	CategoryRed       Category = "red"
	CategoryWhite     Category = "white"
	CategoryRose      Category = "rose"
	CategorySparkling Category = "sparkling"
	CategoryDessert   Category = "dessert"
	CategoryFortified Category = "fortified"
)

// ParseCategory maps a raw string onto a known Category, defaulting to
// CategoryRed for anything unrecognized.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryRed, CategoryWhite, CategoryRose, CategorySparkling, CategoryDessert, CategoryFortified:
		return Category(strings.ToLower(strings.TrimSpace(s)))
	default:
		return CategoryRed
	}
}

// Structured reports whether the category belongs to the structured
// (long-aging) class as opposed to the light class.
func (c Category) Structured() bool {
	switch c {
	case CategoryWhite, CategoryRose, CategorySparkling:
		return false
	default:
		return true
	}
}

// Bottle represents one stored item in the cellar.
// Fields mirror the OpenAPI schema for /bottles.
type Bottle struct {
	ID          string    // unique id for idempotency
	Name        string    // display name
	Category    Category  // closed category enum
	Region      string    // sub-category / region, free text
	Varieties   []string  // grape varieties or ingredient list
	Rating      float64   // quality signal 0-5, 0 means unrated
	Vintage     int       // vintage year, 0 means unknown
	PurchasedAt time.Time // purchase date, fallback age source
	AddedAt     time.Time // intake timestamp
}

// FamilyKey groups bottles that differ only in age for the purposes of the
// consistency validator: same category, region and variety list.
func (b Bottle) FamilyKey() string {
	parts := make([]string, 0, 2+len(b.Varieties))
	parts = append(parts, string(b.Category), strings.ToLower(strings.TrimSpace(b.Region)))
	for _, v := range b.Varieties {
		parts = append(parts, strings.ToLower(strings.TrimSpace(v)))
	}
	return strings.Join(parts, "|")
}

// AgeYears returns the bottle's age in years relative to asOfYear, and
// whether an age could be derived at all. Vintage wins over purchase date.
func (b Bottle) AgeYears(asOfYear int) (int, bool) {
	if b.Vintage > 0 {
		return asOfYear - b.Vintage, true
	}
	if !b.PurchasedAt.IsZero() {
		return asOfYear - b.PurchasedAt.Year(), true
	}
	return 0, false
}

// EstimateJob is the unit of work flowing through the estimation queue.
// Bottles lacking a rich profile are backfilled asynchronously.
type EstimateJob struct {
	JobID      string    // unique id for idempotency
	BottleID   string    // subject bottle
	EnqueuedAt time.Time // enqueue timestamp
}
