package replaycheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/champsim/internal/domain/types"
	"github.com/okian/champsim/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// decodeResponse reads a JSON body into v when the status matches want.
func decodeResponse(resp *http.Response, want int, v any) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.Unmarshal(body, v)
}

type submission struct {
	index    int
	parallel bool
	req      types.SimulationRequest
}

// submitRuns posts every run through a pool of workers and fills pairs.
func submitRuns(ctx context.Context, config *Config, pairs []Pair, stats *Stats) error {
	log := logger.Get().Named("submit")
	log.Info(ctx, "submitting runs",
		logger.Int("runs", 2*len(pairs)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/simulations"

	var (
		successful int64
		failed     int64
		submitted  int64
		mu         sync.Mutex
		firstErr   error
	)

	jobs := make(chan submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				atomic.AddInt64(&submitted, 1)
				sim, err := submitSingleRun(ctx, client, url, job.req)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("seed %d: %w", *job.req.Seed, err)
					}
					mu.Unlock()
					continue
				}
				atomic.AddInt64(&successful, 1)

				// Each slot is written by exactly one worker.
				if job.parallel {
					pairs[job.index].Parallel = sim
				} else {
					pairs[job.index].Sequential = sim
				}
				if config.Verbose {
					log.Debug(ctx, "run stored",
						logger.String("id", sim.ID),
						logger.Uint64("seed", sim.Seed),
						logger.Bool("parallel", sim.Parallel))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range pairs {
			for _, parallel := range []bool{false, true} {
				seed := pairs[i].Seed
				job := submission{index: i, parallel: parallel, req: types.SimulationRequest{
					Target:   config.Target,
					Seasons:  config.Seasons,
					Seed:     &seed,
					Parallel: parallel,
				}}
				select {
				case <-ctx.Done():
					return
				case jobs <- job:
				}
			}
		}
	}()

	wg.Wait()

	stats.RunsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RunsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RunsFailed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "submission completed",
		logger.Int("successful", stats.RunsSuccessful),
		logger.Int("failed", stats.RunsFailed))

	if err := ctx.Err(); err != nil {
		return err
	}
	return firstErr
}

func submitSingleRun(ctx context.Context, client *HTTPClient, url string, req types.SimulationRequest) (types.Simulation, error) {
	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return types.Simulation{}, err
	}
	var sim types.Simulation
	if err := decodeResponse(resp, StatusCreated, &sim); err != nil {
		return types.Simulation{}, err
	}
	return sim, nil
}

// fetchRun reads a stored run back by id.
func fetchRun(ctx context.Context, client *HTTPClient, baseURL, id string) (types.Simulation, error) {
	resp, err := client.Get(ctx, baseURL+"/simulations/"+id)
	if err != nil {
		return types.Simulation{}, err
	}
	var sim types.Simulation
	if err := decodeResponse(resp, StatusOK, &sim); err != nil {
		return types.Simulation{}, err
	}
	return sim, nil
}
