package montecarlo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Batch splits a run into one Job per season so a worker pool can play them
// concurrently. Results are folded in season order, so a batch and Run agree
// exactly for the same seed.
type Batch struct {
	id        string
	driver    *Driver
	finals    [][]int
	remaining atomic.Int64
	done      chan struct{}
	start     time.Time
}

// Job plays a single season of a batch.
type Job struct {
	batch *Batch
	Index int
}

// NewBatch prepares a batch for the driver's configuration.
func (d *Driver) NewBatch(id string) *Batch {
	b := &Batch{
		id:     id,
		driver: d,
		finals: make([][]int, d.seasons),
		done:   make(chan struct{}),
		start:  time.Now(),
	}
	b.remaining.Store(int64(d.seasons))
	return b
}

// ID identifies the batch, typically the run ID.
func (b *Batch) ID() string { return b.id }

// Len returns the number of jobs.
func (b *Batch) Len() int { return len(b.finals) }

// Job returns the job for season i.
func (b *Batch) Job(i int) Job { return Job{batch: b, Index: i} }

// Done is closed once every season has been played.
func (b *Batch) Done() <-chan struct{} { return b.done }

// BatchID returns the owning batch's ID.
func (j Job) BatchID() string {
	if j.batch == nil {
		return ""
	}
	return j.batch.id
}

// Run plays the job's season and stores its final points. Each index owns
// its own slot, so jobs of one batch may run in parallel.
func (j Job) Run() {
	b := j.batch
	b.finals[j.Index] = b.driver.Play(j.Index)
	if b.remaining.Add(-1) == 0 {
		close(b.done)
	}
}

// Wait blocks until every job has run or ctx is done, then aggregates.
func (b *Batch) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-b.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("batch %s: %d of %d seasons left: %w", b.id, b.remaining.Load(), len(b.finals), ctx.Err())
	}

	d := b.driver
	tally := NewTally(d.names, d.target)
	for i, final := range b.finals {
		if final == nil {
			return nil, fmt.Errorf("batch %s season %d: %w", b.id, i, ErrIncomplete)
		}
		tally.Add(final)
	}
	return d.finish(tally, time.Since(b.start)), nil
}
