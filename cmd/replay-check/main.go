package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/champsim/internal/replaycheck"
	"github.com/okian/champsim/pkg/logger"
)

// Default configuration constants.
const (
	defaultSeeds       = 20
	defaultSeasons     = 2_000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		seeds      = flag.Int("seeds", defaultSeeds, "Number of seeds to replay")
		firstSeed  = flag.Uint64("first-seed", 1, "First seed; the rest follow consecutively")
		seasons    = flag.Int("seasons", defaultSeasons, "Seasons per run (0 uses the service default)")
		target     = flag.String("target", "", "Target competitor (empty uses the service default)")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the checked pairs to this JSON file")
		format     = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `champsim replay check

Plays each seed sequentially and in parallel against a running service and
checks that both runs, and the copies the service stored, agree.

Usage:
  replay-check [options]

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(*format)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	_, err := replaycheck.Run(ctx, &replaycheck.Config{
		BaseURL:    *baseURL,
		Seeds:      *seeds,
		FirstSeed:  *firstSeed,
		Seasons:    *seasons,
		Target:     *target,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "replay check failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
