package montecarlo

import "errors"

// Sentinel kinds for driver errors.
var (
	ErrInvalidTarget  = errors.New("invalid target competitor")
	ErrInvalidSeasons = errors.New("season count must be positive")
	ErrIncomplete     = errors.New("batch incomplete")
)
