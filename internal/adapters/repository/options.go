package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds how many runs are kept; the oldest is evicted first.
func WithCapacity(capacity int) Option {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithMaxSeasons bounds the seasons held across all stored runs. The oldest
// runs are evicted until the total fits, keeping at least the newest.
func WithMaxSeasons(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxSeasons = n
		}
	}
}

// WithClock sets the time source used to stamp saved runs.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
