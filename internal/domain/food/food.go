// Package food defines the canonical schema for a meal description.
package food

import "strings"

// Primary is the main ingredient of the meal.
type Primary string

// Primary ingredients.
const (
	PrimaryBeef       Primary = "beef"
	PrimaryLamb       Primary = "lamb"
	PrimaryPoultry    Primary = "poultry"
	PrimaryFish       Primary = "fish"
	PrimaryVegetarian Primary = "vegetarian"
	PrimaryNone       Primary = "none"
)

// Level is a coarse low/medium/high scale for fat, spice and smoke.
type Level string

// Levels.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Sauce is the sauce category of the meal.
type Sauce string

// Sauce categories.
const (
	SauceTomato Sauce = "tomato"
	SauceBBQ    Sauce = "bbq"
	SauceCream  Sauce = "cream"
	SauceNone   Sauce = "none"
)

// Context is a normalized meal description used to score pairing
// compatibility.
type Context struct {
	Primary Primary `json:"primary"`
	Fat     Level   `json:"fat"`
	Sauce   Sauce   `json:"sauce"`
	Spice   Level   `json:"spice"`
	Smoke   Level   `json:"smoke"`
}

// Normalize maps raw field values onto the closed enums, defaulting any
// unrecognized value to its neutral member so a Context is always usable.
func (c Context) Normalize() Context {
	return Context{
		Primary: parsePrimary(string(c.Primary)),
		Fat:     parseLevel(string(c.Fat)),
		Sauce:   parseSauce(string(c.Sauce)),
		Spice:   parseLevel(string(c.Spice)),
		Smoke:   parseLevel(string(c.Smoke)),
	}
}

func parsePrimary(s string) Primary {
	switch Primary(strings.ToLower(strings.TrimSpace(s))) {
	case PrimaryBeef, PrimaryLamb, PrimaryPoultry, PrimaryFish, PrimaryVegetarian:
		return Primary(strings.ToLower(strings.TrimSpace(s)))
	default:
		return PrimaryNone
	}
}

func parseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelMedium:
		return LevelMedium
	case LevelHigh:
		return LevelHigh
	default:
		return LevelLow
	}
}

func parseSauce(s string) Sauce {
	switch Sauce(strings.ToLower(strings.TrimSpace(s))) {
	case SauceTomato, SauceBBQ, SauceCream:
		return Sauce(strings.ToLower(strings.TrimSpace(s)))
	default:
		return SauceNone
	}
}
