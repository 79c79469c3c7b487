package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/champsim/internal/domain/model"
	"github.com/okian/champsim/internal/domain/sampler"
	"github.com/okian/champsim/internal/domain/season"
	"github.com/okian/champsim/pkg/logger"
)

// Default driver configuration constants.
const (
	DefaultSeasons       = 30_000
	defaultProgressEvery = 10_000
)

// Result is a finished run.
type Result struct {
	Summary       Summary
	Records       []Record // only with WithRecords
	Differentials []float64 // target minus leader per season
	Duration      time.Duration
}

// Driver runs N independent seasons for one setup and target.
type Driver struct {
	names   []string
	runner  *season.Runner
	target  int
	seasons int
	seed    uint64
	seedSet bool

	progressEvery int
	runnerOpts    []season.Option
	logger        logger.Logger
	keepRecords   bool
}

// New validates the target and season count and prepares the season runner.
// All configuration errors surface here, before any season is played.
func New(setup model.Setup, target string, opts ...Option) (*Driver, error) {
	d := &Driver{
		seasons:       DefaultSeasons,
		progressEvery: defaultProgressEvery,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.seasons < 1 {
		return nil, fmt.Errorf("driver: %d seasons: %w", d.seasons, ErrInvalidSeasons)
	}
	idx, ok := setup.IndexOf(target)
	if !ok {
		return nil, fmt.Errorf("driver: %q: %w", target, ErrInvalidTarget)
	}
	runner, err := season.New(setup, d.runnerOpts...)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	if !d.seedSet {
		d.seed = rand.Uint64() //nolint:gosec // seed is reported so the run can be replayed
	}

	for _, c := range setup.Competitors() {
		d.names = append(d.names, c.Name)
	}
	d.runner = runner
	d.target = idx
	return d, nil
}

// Seed returns the seed in use, drawn at construction when none was given.
func (d *Driver) Seed() uint64 { return d.seed }

// Seasons returns N.
func (d *Driver) Seasons() int { return d.seasons }

// Target returns the target competitor's name.
func (d *Driver) Target() string { return d.names[d.target] }

// Play simulates season i on its own stream.
func (d *Driver) Play(i int) []int {
	return d.runner.Play(sampler.Stream(d.seed, i))
}

// Run plays all seasons sequentially. ctx is checked between seasons.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	tally := NewTally(d.names, d.target)
	for i := 0; i < d.seasons; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run stopped after %d seasons: %w", i, err)
		}
		tally.Add(d.Play(i))

		if d.logger != nil && (i+1)%d.progressEvery == 0 {
			d.logger.Debug(ctx, "simulation progress",
				logger.Int("seasons", i+1),
				logger.Int("total", d.seasons),
			)
		}
	}
	return d.finish(tally, time.Since(start)), nil
}

func (d *Driver) finish(tally *Tally, elapsed time.Duration) *Result {
	summary := tally.Summary()
	summary.Seed = d.seed
	res := &Result{
		Summary:       summary,
		Differentials: tally.Differentials(),
		Duration:      elapsed,
	}
	if d.keepRecords {
		res.Records = tally.Records()
	}
	return res
}
