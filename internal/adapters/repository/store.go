// Package repository defines the cellar store interface and errors.
package repository

import (
	"context"

	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/profile"
)

// Record pairs a bottle with its currently cached profile. The profile is a
// cache in the sense of the estimation pipeline: it starts heuristic and is
// replaced when an estimate lands.
type Record struct {
	Bottle  model.Bottle
	Profile profile.Profile
}

// Store provides read/write access to the cellar state.
type Store interface {
	// Put inserts or replaces a bottle together with its profile.
	Put(ctx context.Context, b model.Bottle, p profile.Profile) error

	// Get returns the record for a bottle id.
	// Returns ErrNotFound if the bottle is unknown.
	Get(ctx context.Context, id string) (Record, error)

	// SetProfile replaces the cached profile for an existing bottle.
	// Returns false if the bottle is unknown.
	SetProfile(ctx context.Context, id string, p profile.Profile) (bool, error)

	// List returns every record, ordered by intake time then id for
	// deterministic iteration.
	List(ctx context.Context) ([]Record, error)

	// Family returns every record sharing the given family key, in the
	// same deterministic order as List.
	Family(ctx context.Context, key string) ([]Record, error)

	// Count returns the number of bottles tracked in the cellar.
	Count(ctx context.Context) int
}
