package replaycheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/champsim/internal/domain/types"
	"github.com/okian/champsim/pkg/logger"
)

// ErrMismatch reports runs that should agree but do not.
var ErrMismatch = errors.New("replay mismatch")

// verifyPairs checks each seed's sequential and parallel runs against each
// other and against the copies the service stored.
func verifyPairs(ctx context.Context, config *Config, pairs []Pair, stats *Stats) error {
	log := logger.Get().Named("verify")
	client := newHTTPClient(config.Timeout)

	var errs []error
	for _, p := range pairs {
		if err := compareRuns(p.Sequential, p.Parallel); err != nil {
			errs = append(errs, fmt.Errorf("seed %d: %w", p.Seed, err))
			continue
		}

		for _, sim := range []types.Simulation{p.Sequential, p.Parallel} {
			stored, err := fetchRun(ctx, client, config.BaseURL, sim.ID)
			if err != nil {
				errs = append(errs, fmt.Errorf("refetch %s: %w", sim.ID, err))
				continue
			}
			stats.RunsRefetched++
			if err := compareRuns(sim, stored); err != nil {
				errs = append(errs, fmt.Errorf("stored %s: %w", sim.ID, err))
			}
		}
	}

	stats.Mismatches = len(errs)
	if len(errs) > 0 {
		log.Warn(ctx, "replay check found mismatches", logger.Int("mismatches", len(errs)))
		return errors.Join(errs...)
	}
	log.Info(ctx, "all runs replayed", logger.Int("seeds", len(pairs)))
	return nil
}

// compareRuns reports whether two runs describe the same outcome. Identity
// fields (id, timestamps, mode, duration) are not compared.
func compareRuns(a, b types.Simulation) error {
	switch {
	case a.Seed != b.Seed:
		return fmt.Errorf("%w: seed %d vs %d", ErrMismatch, a.Seed, b.Seed)
	case a.Target != b.Target || a.Seasons != b.Seasons:
		return fmt.Errorf("%w: run shape %s/%d vs %s/%d", ErrMismatch, a.Target, a.Seasons, b.Target, b.Seasons)
	case a.WinProbability != b.WinProbability:
		return fmt.Errorf("%w: win probability %v vs %v", ErrMismatch, a.WinProbability, b.WinProbability)
	case a.MeanTarget != b.MeanTarget || a.MeanLeader != b.MeanLeader:
		return fmt.Errorf("%w: mean points differ", ErrMismatch)
	case a.Ties != b.Ties:
		return fmt.Errorf("%w: ties %d vs %d", ErrMismatch, a.Ties, b.Ties)
	case len(a.TitleOdds) != len(b.TitleOdds):
		return fmt.Errorf("%w: %d vs %d title odds", ErrMismatch, len(a.TitleOdds), len(b.TitleOdds))
	}
	for i := range a.TitleOdds {
		if a.TitleOdds[i] != b.TitleOdds[i] {
			return fmt.Errorf("%w: title odds for %s", ErrMismatch, a.TitleOdds[i].Competitor)
		}
	}
	return nil
}
