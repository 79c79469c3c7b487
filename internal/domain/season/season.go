// Package season plays one simulated season over the remaining schedule.
package season

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/okian/champsim/internal/domain/model"
	"github.com/okian/champsim/internal/domain/sampler"
	"github.com/okian/champsim/internal/domain/scoring"
)

// EventResult describes one played event. Secondary is nil when the event
// hosts no secondary race.
type EventResult struct {
	Index     int
	Category  model.Category
	Secondary []int // secondary points awarded, never perturbed
	Main      []int // main points after non-finishes
	Totals    []int // running totals after the event
}

// Observer receives every event as it is played. Slices are owned by the
// observer.
type Observer func(EventResult)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithObserver registers a per-event callback.
func WithObserver(fn Observer) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}

// WithSamplerOptions forwards options to the sampler built for every season.
func WithSamplerOptions(opts ...sampler.Option) Option {
	return func(r *Runner) {
		r.samplerOpts = append(r.samplerOpts, opts...)
	}
}

// Runner plays seasons for one Setup. It is safe for concurrent use as long
// as each call to Play gets its own random source.
type Runner struct {
	start           []int
	schedule        model.Schedule
	mainPoints      model.PointsTable
	secondaryPoints model.PointsTable
	dnfProbability  float64

	// adjusted weights per category, computed once
	adjMain      map[model.Category][]float64
	adjSecondary map[model.Category][]float64

	observer    Observer
	samplerOpts []sampler.Option
}

// New prepares a Runner, reweighting base weights for every category the
// schedule uses.
func New(setup model.Setup, opts ...Option) (*Runner, error) {
	r := &Runner{
		start:           setup.StartPoints(),
		schedule:        setup.Schedule(),
		mainPoints:      setup.MainPoints(),
		secondaryPoints: setup.SecondaryPoints(),
		dnfProbability:  setup.DNFProbability(),
		adjMain:         make(map[model.Category][]float64),
		adjSecondary:    make(map[model.Category][]float64),
	}
	for _, opt := range opts {
		opt(r)
	}

	baseMain := setup.MainWeights()
	baseSecondary := setup.SecondaryWeights()
	for i, ev := range r.schedule {
		mod, ok := setup.Modifier(ev.Category)
		if !ok {
			return nil, fmt.Errorf("event %d category %q: %w", i, ev.Category, model.ErrUnknownCategory)
		}
		if _, done := r.adjMain[ev.Category]; !done {
			adj, err := scoring.Reweight(baseMain, mod)
			if err != nil {
				return nil, fmt.Errorf("event %d main weights: %w", i, err)
			}
			r.adjMain[ev.Category] = adj
		}
		if _, done := r.adjSecondary[ev.Category]; ev.Secondary && !done {
			adj, err := scoring.Reweight(baseSecondary, mod)
			if err != nil {
				return nil, fmt.Errorf("event %d secondary weights: %w", i, err)
			}
			r.adjSecondary[ev.Category] = adj
		}
	}
	return r, nil
}

// Competitors returns the field size.
func (r *Runner) Competitors() int { return len(r.start) }

// Play simulates the schedule once and returns final points per competitor.
// Within an event the secondary race is drawn before the main race.
func (r *Runner) Play(src rand.Source) []int {
	s := sampler.New(src, r.samplerOpts...)
	totals := slices.Clone(r.start)

	for i, ev := range r.schedule {
		var secondary []int
		if ev.Secondary {
			order := s.Order(r.adjSecondary[ev.Category])
			secondary = scoring.Allocate(order, r.secondaryPoints)
			accumulate(totals, secondary)
		}

		order := s.Order(r.adjMain[ev.Category])
		main := s.NonFinish(scoring.Allocate(order, r.mainPoints), r.dnfProbability)
		accumulate(totals, main)

		if r.observer != nil {
			r.observer(EventResult{
				Index:     i,
				Category:  ev.Category,
				Secondary: secondary,
				Main:      main,
				Totals:    slices.Clone(totals),
			})
		}
	}
	return totals
}

func accumulate(totals, add []int) {
	for i, p := range add {
		totals[i] += p
	}
}
