package model

import "errors"

// Sentinel kinds for configuration errors. All are detected by NewSetup,
// before any season is simulated.
var (
	ErrNoCompetitors       = errors.New("no competitors")
	ErrDuplicateCompetitor = errors.New("duplicate competitor")
	ErrCompetitorMismatch  = errors.New("competitor count mismatch")
	ErrInvalidWeights      = errors.New("invalid weights")
	ErrUnknownCategory     = errors.New("unknown event category")
	ErrSchedule            = errors.New("invalid schedule")
	ErrInvalidProbability  = errors.New("invalid probability")
	ErrInvalidPoints       = errors.New("invalid points table")
)
