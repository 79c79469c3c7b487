package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrInvalidBins = errors.New("invalid bin count")
	ErrNoData      = errors.New("no data to bin")
)
