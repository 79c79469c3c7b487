package replaycheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/champsim/pkg/logger"
)

// Run executes the complete replay check.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if config.Seeds < 1 {
		return stats, fmt.Errorf("seeds must be positive, got %d", config.Seeds)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	log := logger.Get().Named("replaycheck")
	log.Info(ctx, "starting replay check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("seeds", config.Seeds),
		logger.Uint64("firstSeed", config.FirstSeed),
		logger.Int("seasons", config.Seasons),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Play every seed both ways
	pairs := make([]Pair, config.Seeds)
	for i := range pairs {
		pairs[i].Seed = config.FirstSeed + uint64(i)
	}
	if err := submitRuns(ctx, config, pairs, stats); err != nil {
		return stats, fmt.Errorf("run submission failed: %w", err)
	}

	// Step 3: Verify
	verifyErr := verifyPairs(ctx, config, pairs, stats)

	// Step 4: Save pairs to file
	if config.OutputFile != "" {
		if err := savePairs(ctx, config.OutputFile, pairs); err != nil {
			log.Warn(ctx, "failed to save pairs to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, fmt.Errorf("result verification failed: %w", verifyErr)
	}
	log.Info(ctx, "replay check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	var body map[string]string
	if err := decodeResponse(resp, StatusOK, &body); err != nil {
		return err
	}
	if body["status"] != "ok" {
		return fmt.Errorf("service reports status %q", body["status"])
	}
	return nil
}

// savePairs writes the checked pairs to a JSON file.
func savePairs(ctx context.Context, filename string, pairs []Pair) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pairs: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "pairs saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final check statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var runsPerSecond float64
	if stats.Duration > 0 {
		runsPerSecond = float64(stats.RunsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("runsSubmitted", stats.RunsSubmitted),
		logger.Int("runsSuccessful", stats.RunsSuccessful),
		logger.Int("runsFailed", stats.RunsFailed),
		logger.Int("runsRefetched", stats.RunsRefetched),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration),
		logger.Float64("runsPerSecond", runsPerSecond))
}
