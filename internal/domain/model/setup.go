package model

import (
	"fmt"
	"math"
	"slices"
)

// Params is the plain input used to build a Setup.
type Params struct {
	Competitors     []Competitor
	MainPoints      PointsTable
	SecondaryPoints PointsTable
	Modifiers       ModifierTable
	Schedule        []Category
	SecondaryEvents []int // schedule indices that also host a secondary event
	DNFProbability  float64
}

// Setup is the validated, immutable configuration of one simulation run.
// Accessors hand out copies; nothing reachable from a Setup can be mutated
// by the engine.
type Setup struct {
	competitors     []Competitor
	mainPoints      PointsTable
	secondaryPoints PointsTable
	modifiers       ModifierTable
	schedule        Schedule
	dnfProbability  float64
}

// NewSetup validates p and returns an immutable Setup.
func NewSetup(p Params) (Setup, error) {
	if err := validate(p); err != nil {
		return Setup{}, err
	}

	flagged := make(map[int]bool, len(p.SecondaryEvents))
	for _, idx := range p.SecondaryEvents {
		flagged[idx] = true
	}
	schedule := make(Schedule, len(p.Schedule))
	for i, cat := range p.Schedule {
		schedule[i] = Event{Category: cat, Secondary: flagged[i]}
	}

	mods := make(ModifierTable, len(p.Modifiers))
	for cat, vec := range p.Modifiers {
		mods[cat] = slices.Clone(vec)
	}

	return Setup{
		competitors:     slices.Clone(p.Competitors),
		mainPoints:      slices.Clone(p.MainPoints),
		secondaryPoints: slices.Clone(p.SecondaryPoints),
		modifiers:       mods,
		schedule:        schedule,
		dnfProbability:  p.DNFProbability,
	}, nil
}

func validate(p Params) error {
	k := len(p.Competitors)
	if k == 0 {
		return fmt.Errorf("setup: %w", ErrNoCompetitors)
	}

	seen := make(map[string]bool, k)
	for i, c := range p.Competitors {
		if seen[c.Name] {
			return fmt.Errorf("setup: competitor %d %q: %w", i, c.Name, ErrDuplicateCompetitor)
		}
		seen[c.Name] = true
		if c.StartPoints < 0 {
			return fmt.Errorf("setup: competitor %q has negative standings %d: %w", c.Name, c.StartPoints, ErrInvalidPoints)
		}
		if !validWeight(c.MainWeight) || !validWeight(c.SecondaryWeight) {
			return fmt.Errorf("setup: competitor %q: %w", c.Name, ErrInvalidWeights)
		}
	}

	for name, table := range map[string]PointsTable{"main": p.MainPoints, "secondary": p.SecondaryPoints} {
		for rank, pts := range table {
			if pts < 0 {
				return fmt.Errorf("setup: %s table rank %d: %w", name, rank, ErrInvalidPoints)
			}
		}
	}

	for cat, vec := range p.Modifiers {
		if len(vec) != k {
			return fmt.Errorf("setup: modifier %q has %d entries for %d competitors: %w", cat, len(vec), k, ErrCompetitorMismatch)
		}
		for i, m := range vec {
			if !validWeight(m) {
				return fmt.Errorf("setup: modifier %q entry %d: %w", cat, i, ErrInvalidWeights)
			}
		}
	}

	if math.IsNaN(p.DNFProbability) || p.DNFProbability < 0 || p.DNFProbability > 1 {
		return fmt.Errorf("setup: dnf probability %v: %w", p.DNFProbability, ErrInvalidProbability)
	}

	flagged := make(map[int]bool, len(p.SecondaryEvents))
	for _, idx := range p.SecondaryEvents {
		if idx < 0 || idx >= len(p.Schedule) {
			return fmt.Errorf("setup: secondary event index %d outside schedule of %d: %w", idx, len(p.Schedule), ErrSchedule)
		}
		flagged[idx] = true
	}

	mains := make([]float64, k)
	secondaries := make([]float64, k)
	for i, c := range p.Competitors {
		mains[i] = c.MainWeight
		secondaries[i] = c.SecondaryWeight
	}
	for i, cat := range p.Schedule {
		mod, ok := p.Modifiers[cat]
		if !ok {
			return fmt.Errorf("setup: event %d category %q: %w", i, cat, ErrUnknownCategory)
		}
		if sum := weightedSum(mains, mod); !usableSum(sum) {
			return fmt.Errorf("setup: event %d (%s) main weights sum to %g: %w", i, cat, sum, ErrInvalidWeights)
		}
		if !flagged[i] {
			continue
		}
		if sum := weightedSum(secondaries, mod); !usableSum(sum) {
			return fmt.Errorf("setup: event %d (%s) secondary weights sum to %g: %w", i, cat, sum, ErrInvalidWeights)
		}
	}
	return nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}

// usableSum reports whether an adjusted weight sum can normalise a draw:
// positive and finite. Large finite weights can still overflow to +Inf.
func usableSum(sum float64) bool {
	return sum > 0 && !math.IsInf(sum, 1)
}

func weightedSum(base, mod []float64) float64 {
	var s float64
	for i := range base {
		s += base[i] * mod[i]
	}
	return s
}

// Len returns the number of competitors.
func (s Setup) Len() int { return len(s.competitors) }

// Competitors returns a copy of the competitor list.
func (s Setup) Competitors() []Competitor { return slices.Clone(s.competitors) }

// IndexOf returns the index of the named competitor.
func (s Setup) IndexOf(name string) (int, bool) {
	for i, c := range s.competitors {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// StartPoints returns a fresh copy of the starting standings.
func (s Setup) StartPoints() []int {
	pts := make([]int, len(s.competitors))
	for i, c := range s.competitors {
		pts[i] = c.StartPoints
	}
	return pts
}

// MainWeights returns the base main-event weights.
func (s Setup) MainWeights() []float64 {
	w := make([]float64, len(s.competitors))
	for i, c := range s.competitors {
		w[i] = c.MainWeight
	}
	return w
}

// SecondaryWeights returns the base secondary-event weights.
func (s Setup) SecondaryWeights() []float64 {
	w := make([]float64, len(s.competitors))
	for i, c := range s.competitors {
		w[i] = c.SecondaryWeight
	}
	return w
}

// MainPoints returns a copy of the main-event points table.
func (s Setup) MainPoints() PointsTable { return slices.Clone(s.mainPoints) }

// SecondaryPoints returns a copy of the secondary-event points table.
func (s Setup) SecondaryPoints() PointsTable { return slices.Clone(s.secondaryPoints) }

// Modifier returns a copy of the multiplier vector for cat.
func (s Setup) Modifier(cat Category) ([]float64, bool) {
	vec, ok := s.modifiers[cat]
	if !ok {
		return nil, false
	}
	return slices.Clone(vec), true
}

// Schedule returns a copy of the event schedule.
func (s Setup) Schedule() Schedule { return slices.Clone(s.schedule) }

// DNFProbability is the per-competitor, per-main-event failure chance.
func (s Setup) DNFProbability() float64 { return s.dnfProbability }
