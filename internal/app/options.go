package service

import (
	"github.com/okian/champsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of season workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the season job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreCapacity sets how many finished runs are kept.
func WithStoreCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.storeCapacity = capacity
		}
	}
}

// WithStoreSeasons bounds the seasons held across all finished runs.
func WithStoreSeasons(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.storeSeasons = n
		}
	}
}

// WithDefaults sets the target, season count and seed used when a request
// leaves them out. A nil seed draws a fresh one per run.
func WithDefaults(target string, seasons int, seed *uint64) Option {
	return func(s *Service) {
		if target != "" {
			s.defaultTarget = target
		}
		if seasons > 0 {
			s.defaultSeasons = seasons
		}
		s.defaultSeed = seed
	}
}

// WithMaxSeasons caps the season count a single request may ask for.
func WithMaxSeasons(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSeasons = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
