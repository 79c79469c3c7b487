// Package types contains the request and response shapes shared by the
// service and the HTTP API.
package types

import "time"

// SimulationRequest asks for a new run. Zero values fall back to the
// service defaults; a nil Seed draws a fresh one.
type SimulationRequest struct {
	Target   string  `json:"target,omitempty"`
	Seasons  int     `json:"seasons,omitempty"`
	Seed     *uint64 `json:"seed,omitempty"`
	Parallel bool    `json:"parallel,omitempty"`
}

// Odds is one competitor's title chance.
type Odds struct {
	Competitor  string  `json:"competitor"`
	Probability float64 `json:"probability"`
	MeanPoints  float64 `json:"mean_points"`
}

// Simulation is a finished run as exposed to clients.
type Simulation struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Target         string    `json:"target"`
	Seasons        int       `json:"seasons"`
	Seed           uint64    `json:"seed"`
	Parallel       bool      `json:"parallel"`
	WinProbability float64   `json:"win_probability"`
	MeanTarget     float64   `json:"mean_target_points"`
	MeanLeader     float64   `json:"mean_leader_points"`
	Ties           int       `json:"ties"`
	TieFraction    float64   `json:"tie_fraction"`
	DurationMS     float64   `json:"duration_ms"`
	TitleOdds      []Odds    `json:"title_odds"`
}

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo       float64 `json:"lo"`
	Hi       float64 `json:"hi"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// Histogram is the distribution of the target's final gap to the leader.
type Histogram struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Bins   []Bin  `json:"bins"`
}

// Stats describes the running service.
type Stats struct {
	Started       bool     `json:"started"`
	Workers       int      `json:"workers"`
	QueueLength   int      `json:"queue_length"`
	QueueCapacity int      `json:"queue_capacity"`
	StoredRuns    int      `json:"stored_runs"`
	JobsProcessed int64    `json:"jobs_processed"`
	DefaultTarget string   `json:"default_target"`
	Competitors   []string `json:"competitors"`
}
