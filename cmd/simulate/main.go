// Command simulate runs one championship simulation and prints the title
// odds, the target's summary and the distribution of its final gap to the
// season leader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	app "github.com/okian/champsim/internal/app"
	"github.com/okian/champsim/internal/config"
	"github.com/okian/champsim/internal/report"
	"github.com/okian/champsim/pkg/logger"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

const histogramWidth = 50

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	target     string
	seasons    int
	seed       *uint64
	parallel   bool
	bins       int
	logLevel   string
	dump       string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", os.Getenv("CHAMPSIM_CONFIG"), "YAML scenario file")
	fs.StringVar(&o.target, "target", "", "Competitor whose title odds are estimated (default from config)")
	fs.IntVar(&o.seasons, "seasons", 0, "Number of simulated seasons (default from config)")
	fs.Func("seed", "Random seed for a reproducible run", func(s string) error {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		o.seed = &v
		return nil
	})
	fs.BoolVar(&o.parallel, "parallel", false, "Play seasons on the worker pool")
	fs.IntVar(&o.bins, "bins", report.DefaultBins, "Histogram bins; 0 disables the histogram")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	fs.StringVar(&o.dump, "dump", "", "Write the per-season differentials as CSV to this file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.LoadFile(ctx, opts.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitFailed
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintln(stderr, "logging:", err)
		return exitFailed
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		fmt.Fprintln(stderr, "logging:", err)
		return exitFailed
	}
	log := logger.Get().Named("simulate")

	setup, err := cfg.Simulation.Setup()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitFailed
	}

	svc := app.New(setup,
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithStoreCapacity(1),
		app.WithMaxSeasons(max(cfg.MaxSeasons, opts.seasons)),
		app.WithDefaults(cfg.Simulation.Target, cfg.Simulation.Seasons, cfg.Simulation.Seed),
	)
	if opts.parallel {
		if err := svc.Start(ctx); err != nil {
			log.Error(ctx, "failed to start worker pool", logger.Error(err))
			return exitFailed
		}
		defer func() { _ = svc.Stop(context.Background()) }()
	}

	res, err := svc.Run(ctx, app.Request{
		Target:   opts.target,
		Seasons:  opts.seasons,
		Seed:     opts.seed,
		Parallel: opts.parallel,
	})
	if err != nil {
		fmt.Fprintln(stderr, "simulate:", err)
		return exitFailed
	}

	if err := writeReport(stdout, res.Result.Summary.Target, res, opts.bins); err != nil {
		fmt.Fprintln(stderr, "report:", err)
		return exitFailed
	}
	log.Info(ctx, "seed for replay", logger.Uint64("seed", res.Result.Summary.Seed))

	if opts.dump != "" {
		if err := dumpDifferentials(opts.dump, res); err != nil {
			fmt.Fprintln(stderr, "dump:", err)
			return exitFailed
		}
	}
	return exitOK
}
