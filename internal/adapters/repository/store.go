// Package repository keeps finished simulation runs for later lookup.
package repository

import (
	"context"
	"time"

	"github.com/okian/champsim/internal/domain/montecarlo"
)

// Run is a finished simulation together with how it was requested.
type Run struct {
	ID        string
	CreatedAt time.Time
	Parallel  bool
	Result    *montecarlo.Result
}

// Store provides read/write access to finished runs.
type Store interface {
	// Save stores a run, assigning an ID and timestamp when missing.
	// Returns ErrDuplicate if the ID is already stored.
	Save(ctx context.Context, run Run) (Run, error)

	// Get returns the run with the given ID.
	// Returns ErrNotFound if the run is unknown or was evicted.
	Get(ctx context.Context, id string) (Run, error)

	// Recent returns up to n runs, newest first.
	Recent(ctx context.Context, n int) ([]Run, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) int
}
