// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Errors returned to callers wrap this package's sentinels.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/champsim/internal/domain/model"
	"github.com/okian/champsim/internal/domain/montecarlo"
	"github.com/okian/champsim/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory season job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of season workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxStoredRuns caps how many finished runs the store keeps.
	MaxStoredRuns int `koanf:"max_stored_runs"`

	// MaxStoredSeasons caps the seasons held across all stored runs; each
	// season keeps one differential.
	MaxStoredSeasons int `koanf:"max_stored_seasons"`

	// MaxListLimit caps GET /simulations?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// MaxSeasons caps the season count a single API request may ask for.
	MaxSeasons int `koanf:"max_seasons"`

	Simulation Simulation `koanf:"simulation"`
}

// Simulation is the championship scenario and the run defaults.
type Simulation struct {
	Seasons         int                  `koanf:"seasons"`
	Seed            *uint64              `koanf:"seed"` // nil draws a fresh seed per run
	Target          string               `koanf:"target"`
	DNFProbability  float64              `koanf:"dnf_probability"`
	Competitors     []Competitor         `koanf:"competitors"`
	MainPoints      []int                `koanf:"main_points"`
	SecondaryPoints []int                `koanf:"secondary_points"`
	Modifiers       map[string][]float64 `koanf:"modifiers"`
	Schedule        []string             `koanf:"schedule"`
	SecondaryEvents []int                `koanf:"secondary_events"`
}

// Competitor is one configured entrant.
type Competitor struct {
	Name            string  `koanf:"name"`
	Points          int     `koanf:"points"`
	MainWeight      float64 `koanf:"main_weight"`
	SecondaryWeight float64 `koanf:"secondary_weight"`
}

// New creates a Config holding the 2025 title run-in: six contenders, five
// remaining rounds, sprints on the second and third.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU(),
		MaxStoredRuns:    256,
		MaxStoredSeasons: 20_000_000,
		MaxListLimit:     100,
		MaxSeasons:       1_000_000,
		Simulation: Simulation{
			Seasons:        montecarlo.DefaultSeasons,
			Target:         "Verstappen",
			DNFProbability: 0.05,
			Competitors: []Competitor{
				{Name: "Piastri", Points: 346, MainWeight: 0.26, SecondaryWeight: 0.25},
				{Name: "Norris", Points: 332, MainWeight: 0.23, SecondaryWeight: 0.22},
				{Name: "Verstappen", Points: 306, MainWeight: 0.28, SecondaryWeight: 0.30},
				{Name: "Russell", Points: 252, MainWeight: 0.08, SecondaryWeight: 0.10},
				{Name: "Leclerc", Points: 192, MainWeight: 0.08, SecondaryWeight: 0.08},
				{Name: "Hamilton", Points: 142, MainWeight: 0.07, SecondaryWeight: 0.05},
			},
			MainPoints:      append([]int(nil), scoring.DefaultMainPoints...),
			SecondaryPoints: append([]int(nil), scoring.DefaultSecondaryPoints...),
			Modifiers: map[string][]float64{
				"High":   {0.90, 0.90, 1.30, 1.05, 1.00, 0.95},
				"Medium": {1.00, 1.00, 1.00, 1.00, 1.00, 1.00},
				"Low":    {1.10, 1.10, 0.85, 0.95, 0.95, 1.00},
			},
			Schedule:        []string{"High", "Medium", "Low", "Medium", "High"},
			SecondaryEvents: []int{1, 2},
		},
	}
}

// Validate checks process settings. Scenario data is validated by Setup.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.MaxStoredRuns < 1:
		return fmt.Errorf("%w: max_stored_runs must be positive, got %d", ErrInvalidConfig, c.MaxStoredRuns)
	case c.MaxStoredSeasons < c.MaxSeasons:
		return fmt.Errorf("%w: max_stored_seasons %d is below max_seasons %d", ErrInvalidConfig, c.MaxStoredSeasons, c.MaxSeasons)
	case c.MaxListLimit < 1:
		return fmt.Errorf("%w: max_list_limit must be positive, got %d", ErrInvalidConfig, c.MaxListLimit)
	case c.Simulation.Seasons < 1:
		return fmt.Errorf("%w: simulation.seasons must be positive, got %d", ErrInvalidConfig, c.Simulation.Seasons)
	case c.MaxSeasons < c.Simulation.Seasons:
		return fmt.Errorf("%w: max_seasons %d is below simulation.seasons %d", ErrInvalidConfig, c.MaxSeasons, c.Simulation.Seasons)
	}
	return nil
}

// Setup converts the scenario into a validated model.Setup.
func (s Simulation) Setup() (model.Setup, error) {
	competitors := make([]model.Competitor, len(s.Competitors))
	for i, c := range s.Competitors {
		competitors[i] = model.Competitor{
			Name:            c.Name,
			StartPoints:     c.Points,
			MainWeight:      c.MainWeight,
			SecondaryWeight: c.SecondaryWeight,
		}
	}

	mods := make(model.ModifierTable, len(s.Modifiers))
	for cat, vec := range s.Modifiers {
		mods[model.Category(cat)] = vec
	}

	schedule := make([]model.Category, len(s.Schedule))
	for i, cat := range s.Schedule {
		schedule[i] = model.Category(cat)
	}

	setup, err := model.NewSetup(model.Params{
		Competitors:     competitors,
		MainPoints:      s.MainPoints,
		SecondaryPoints: s.SecondaryPoints,
		Modifiers:       mods,
		Schedule:        schedule,
		SecondaryEvents: s.SecondaryEvents,
		DNFProbability:  s.DNFProbability,
	})
	if err != nil {
		return model.Setup{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return setup, nil
}

// DriverOptions returns the run defaults as montecarlo options.
func (s Simulation) DriverOptions() []montecarlo.Option {
	opts := []montecarlo.Option{montecarlo.WithSeasons(s.Seasons)}
	if s.Seed != nil {
		opts = append(opts, montecarlo.WithSeed(*s.Seed))
	}
	return opts
}
