// Package replaycheck drives a running simulator over HTTP and checks that
// runs replay: each seed is played sequentially and in parallel, and both
// runs plus their stored copies must agree.
package replaycheck

import (
	"time"

	"github.com/okian/champsim/internal/domain/types"
)

// Config holds configuration for a replay check.
type Config struct {
	BaseURL    string        // Base URL of the service
	Seeds      int           // Number of seeds to replay
	FirstSeed  uint64        // Seeds are FirstSeed, FirstSeed+1, ...
	Seasons    int           // Seasons per run; 0 uses the service default
	Target     string        // Target competitor; empty uses the service default
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON dump of the checked pairs
	Verbose    bool
}

// Pair is one seed played both ways.
type Pair struct {
	Seed       uint64           `json:"seed"`
	Sequential types.Simulation `json:"sequential"`
	Parallel   types.Simulation `json:"parallel"`
}

// Stats holds check statistics.
type Stats struct {
	RunsSubmitted  int
	RunsSuccessful int
	RunsFailed     int
	RunsRefetched  int
	Mismatches     int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
