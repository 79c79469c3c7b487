package montecarlo

import (
	"github.com/okian/champsim/internal/domain/season"
	"github.com/okian/champsim/pkg/logger"
)

// Option applies a configuration option to the Driver.
type Option func(*Driver)

// WithSeasons sets the number of simulated seasons N.
func WithSeasons(n int) Option {
	return func(d *Driver) {
		d.seasons = n
	}
}

// WithSeed fixes the random seed so runs can be replayed.
func WithSeed(seed uint64) Option {
	return func(d *Driver) {
		d.seed = seed
		d.seedSet = true
	}
}

// WithLogger sets a logger for progress reporting.
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithProgressEvery logs progress every n seasons on the sequential path.
func WithProgressEvery(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.progressEvery = n
		}
	}
}

// WithRecords keeps the per-season records in the Result. Off by default:
// records cost 32 bytes per season and callers that store results only
// need the summary and the differentials.
func WithRecords() Option {
	return func(d *Driver) {
		d.keepRecords = true
	}
}

// WithRunnerOptions forwards options to the season runner.
func WithRunnerOptions(opts ...season.Option) Option {
	return func(d *Driver) {
		d.runnerOpts = append(d.runnerOpts, opts...)
	}
}
