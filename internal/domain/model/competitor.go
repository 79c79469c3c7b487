// Package model contains domain models passed between layers.
package model

// Competitor is one entrant in the championship. Index alignment across
// standings, weights and modifier vectors follows the order competitors are
// listed in a Setup.
type Competitor struct {
	Name            string  // display name, unique within a Setup
	StartPoints     int     // published standings before the remaining schedule
	MainWeight      float64 // base win likelihood for a main event
	SecondaryWeight float64 // base win likelihood for a secondary event
}

// Category labels an event type, e.g. "High" downforce.
type Category string

// Event is one scheduled round.
type Event struct {
	Category  Category
	Secondary bool // also hosts a secondary (bonus) event
}

// Schedule is the ordered list of remaining events.
type Schedule []Event

// PointsTable maps finishing rank (0-indexed) to points. Ranks beyond the
// table length score nothing.
type PointsTable []int

// ModifierTable maps a category to per-competitor weight multipliers.
type ModifierTable map[Category][]float64
