// Package service runs championship simulations for the HTTP API and the
// command line: sequentially on the caller's goroutine or split across the
// worker pool, keeping finished runs in the run store.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/champsim/internal/adapters/mq/queue"
	workerpool "github.com/okian/champsim/internal/adapters/mq/worker"
	repository "github.com/okian/champsim/internal/adapters/repository"
	"github.com/okian/champsim/internal/domain/model"
	"github.com/okian/champsim/internal/domain/montecarlo"
	"github.com/okian/champsim/internal/domain/types"
	"github.com/okian/champsim/internal/report"
	"github.com/okian/champsim/pkg/logger"
	"github.com/okian/champsim/pkg/metrics"
)

const (
	modeSequential = "sequential"
	modeParallel   = "parallel"
)

// Service implements the API dependencies for the simulator.
type Service struct {
	mu sync.RWMutex

	setup model.Setup
	names []string

	// Core components
	store      *repository.MemoryStore
	jobQueue   *jobqueue.InMemoryQueue
	workerPool *workerpool.Pool
	poolCancel context.CancelFunc

	// Configuration
	workerCount    int
	queueSize      int
	storeCapacity  int
	storeSeasons   int
	defaultTarget  string
	defaultSeasons int
	defaultSeed    *uint64
	maxSeasons     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Request describes one run. Zero values take the service defaults.
type Request struct {
	Target   string
	Seasons  int
	Seed     *uint64
	Parallel bool
}

// New constructs a Service for the given championship setup.
func New(setup model.Setup, opts ...Option) *Service {
	s := &Service{
		setup:          setup,
		workerCount:    runtime.NumCPU(),
		queueSize:      10_000,
		storeCapacity:  256,
		storeSeasons:   20_000_000,
		defaultSeasons: montecarlo.DefaultSeasons,
		maxSeasons:     1_000_000,
	}
	for _, c := range setup.Competitors() {
		s.names = append(s.names, c.Name)
	}
	if len(s.names) > 0 {
		s.defaultTarget = s.names[0]
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.store = repository.NewMemoryStore(
		repository.WithCapacity(s.storeCapacity),
		repository.WithMaxSeasons(s.storeSeasons),
	)

	return s
}

// Start creates the job queue and starts the worker pool used by parallel
// runs. Sequential runs work without it. The pool outlives ctx: only Stop
// ends it, so runs in flight when ctx is cancelled still finish.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting simulation service...")

	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue,
		workerpool.WithPoolLogger(s.logger.Named("pool")))
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.poolCancel = cancel
	s.workerPool.Start(poolCtx)

	s.started = true
	s.logger.Info(ctx, "simulation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("storeCapacity", s.storeCapacity),
		logger.Int("storeSeasons", s.storeSeasons),
	)

	return nil
}

// Stop gracefully shuts down the worker pool. Parallel runs still in flight
// fail with ErrNotStarted or a closed-queue error.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping simulation service...")
	err := s.workerPool.Shutdown(ctx)
	s.poolCancel()
	s.started = false
	s.logger.Info(ctx, "simulation service stopped")
	return err
}

// Run executes a simulation and stores the finished run.
func (s *Service) Run(ctx context.Context, req Request) (repository.Run, error) {
	if req.Target == "" {
		req.Target = s.defaultTarget
	}
	if req.Seasons == 0 {
		req.Seasons = s.defaultSeasons
	}
	if req.Seed == nil {
		req.Seed = s.defaultSeed
	}
	if req.Seasons > s.maxSeasons {
		return repository.Run{}, fmt.Errorf("%w: at most %d seasons per run, got %d", ErrInvalidRequest, s.maxSeasons, req.Seasons)
	}

	opts := []montecarlo.Option{
		montecarlo.WithSeasons(req.Seasons),
		montecarlo.WithLogger(s.logger.Named("driver")),
	}
	if req.Seed != nil {
		opts = append(opts, montecarlo.WithSeed(*req.Seed))
	}
	driver, err := montecarlo.New(s.setup, req.Target, opts...)
	if err != nil {
		return repository.Run{}, err
	}

	mode := modeSequential
	if req.Parallel {
		mode = modeParallel
	}
	id := uuid.NewString()
	s.logger.Info(ctx, "simulation started",
		logger.String("id", id),
		logger.String("target", driver.Target()),
		logger.Int("seasons", driver.Seasons()),
		logger.Uint64("seed", driver.Seed()),
		logger.String("mode", mode),
	)

	start := time.Now()
	var res *montecarlo.Result
	if req.Parallel {
		res, err = s.runParallel(ctx, driver, id)
	} else {
		res, err = driver.Run(ctx)
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordRun(mode, "error", elapsed)
		s.logger.Warn(ctx, "simulation failed", logger.String("id", id), logger.Error(err))
		return repository.Run{}, err
	}

	metrics.RecordRun(mode, "ok", elapsed)
	metrics.AddSeasons(res.Summary.Seasons)
	if res.Summary.Seasons > 0 {
		metrics.RecordSeasonLatency(float64(res.Duration.Microseconds()) / float64(res.Summary.Seasons))
	}
	metrics.UpdateTargetOdds(res.Summary.Target, res.Summary.WinProbability, res.Summary.TieFraction)

	run, err := s.store.Save(ctx, repository.Run{ID: id, Parallel: req.Parallel, Result: res})
	if err != nil {
		return repository.Run{}, err
	}

	s.logger.Info(ctx, "simulation finished",
		logger.String("id", id),
		logger.Float64("winProbability", res.Summary.WinProbability),
		logger.Duration("duration", res.Duration),
	)
	return run, nil
}

// runParallel feeds one job per season into the queue and waits for the
// pool to play them.
func (s *Service) runParallel(ctx context.Context, driver *montecarlo.Driver, id string) (*montecarlo.Result, error) {
	s.mu.RLock()
	q, started := s.jobQueue, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	batch := driver.NewBatch(id)
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	go func() {
		for i := 0; i < batch.Len(); i++ {
			if err := q.Put(runCtx, batch.Job(i)); err != nil {
				cancel(fmt.Errorf("enqueue season %d: %w", i, err))
				return
			}
		}
	}()

	res, err := batch.Wait(runCtx)
	if err != nil {
		if cause := context.Cause(runCtx); cause != nil && ctx.Err() == nil {
			return nil, cause
		}
		return nil, err
	}
	return res, nil
}

// Simulate runs a simulation and returns its API view.
func (s *Service) Simulate(ctx context.Context, req types.SimulationRequest) (types.Simulation, error) {
	run, err := s.Run(ctx, Request{
		Target:   req.Target,
		Seasons:  req.Seasons,
		Seed:     req.Seed,
		Parallel: req.Parallel,
	})
	if err != nil {
		return types.Simulation{}, err
	}
	return toSimulation(run), nil
}

// Get returns a stored run.
func (s *Service) Get(ctx context.Context, id string) (types.Simulation, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Simulation{}, err
	}
	return toSimulation(run), nil
}

// Recent returns up to n stored runs, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]types.Simulation, error) {
	runs, err := s.store.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Simulation, len(runs))
	for i, run := range runs {
		out[i] = toSimulation(run)
	}
	return out, nil
}

// Histogram bins a stored run's target-minus-leader gaps.
func (s *Service) Histogram(ctx context.Context, id string, bins int) (types.Histogram, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Histogram{}, err
	}
	hist, err := report.Histogram(run.Result.Differentials, bins)
	if err != nil {
		return types.Histogram{}, err
	}

	out := types.Histogram{ID: run.ID, Target: run.Result.Summary.Target, Bins: make([]types.Bin, len(hist))}
	for i, b := range hist {
		out.Bins[i] = types.Bin{Lo: b.Lo, Hi: b.Hi, Count: b.Count, Fraction: b.Fraction}
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started:       s.started,
		Workers:       s.workerCount,
		QueueCapacity: s.queueSize,
		StoredRuns:    s.store.Count(ctx),
		DefaultTarget: s.defaultTarget,
		Competitors:   append([]string(nil), s.names...),
	}
	if s.jobQueue != nil {
		stats.QueueLength = s.jobQueue.Len(ctx)
	}
	if s.workerPool != nil {
		stats.JobsProcessed = s.workerPool.Processed()
	}
	return stats
}

func toSimulation(run repository.Run) types.Simulation {
	s := run.Result.Summary
	odds := make([]types.Odds, len(s.TitleOdds))
	for i, o := range s.TitleOdds {
		odds[i] = types.Odds{Competitor: o.Competitor, Probability: o.Probability, MeanPoints: o.MeanPoints}
	}
	return types.Simulation{
		ID:             run.ID,
		CreatedAt:      run.CreatedAt,
		Target:         s.Target,
		Seasons:        s.Seasons,
		Seed:           s.Seed,
		Parallel:       run.Parallel,
		WinProbability: s.WinProbability,
		MeanTarget:     s.MeanTarget,
		MeanLeader:     s.MeanLeader,
		Ties:           s.Ties,
		TieFraction:    s.TieFraction,
		DurationMS:     float64(run.Result.Duration.Microseconds()) / 1000,
		TitleOdds:      odds,
	}
}
