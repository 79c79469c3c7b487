package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/champsim/pkg/metrics"
)

const (
	defaultCapacity   = 256
	defaultMaxSeasons = 20_000_000
)

// MemoryStore is a bounded, in-memory Store with FIFO eviction. It is bounded
// twice: by run count and by the seasons held across all runs, since each
// stored season keeps its differential.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]Run
	order      []string // oldest first
	capacity   int
	maxSeasons int
	seasons    int
	now        func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]Run),
		capacity:   defaultCapacity,
		maxSeasons: defaultMaxSeasons,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateStoredRuns(0)
	return s
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, run Run) (Run, error) {
	if run.Result == nil {
		return Run{}, fmt.Errorf("%w: missing result", ErrInvalidRun)
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[run.ID]; ok {
		return Run{}, fmt.Errorf("%w: %s", ErrDuplicate, run.ID)
	}
	s.byID[run.ID] = run
	s.order = append(s.order, run.ID)
	s.seasons += seasonsOf(run)

	// The newest run always stays, even when it alone exceeds the budget.
	for len(s.order) > s.capacity || (s.seasons > s.maxSeasons && len(s.order) > 1) {
		s.seasons -= seasonsOf(s.byID[s.order[0]])
		delete(s.byID, s.order[0])
		s.order[0] = ""
		s.order = s.order[1:]
	}

	metrics.UpdateStoredRuns(len(s.order))
	return run, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.byID[id]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, nil
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]Run, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n = min(n, len(s.order))
	out := make([]Run, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

// Seasons reports how many seasons the stored runs hold in total.
func (s *MemoryStore) Seasons() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seasons
}

func seasonsOf(run Run) int {
	return max(run.Result.Summary.Seasons, len(run.Result.Differentials))
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
