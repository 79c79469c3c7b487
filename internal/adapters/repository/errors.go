package repository

import "errors"

// Sentinel kinds for run store errors.
var (
	ErrNotFound     = errors.New("run not found")
	ErrDuplicate    = errors.New("run already stored")
	ErrInvalidLimit = errors.New("invalid run limit")
	ErrInvalidRun   = errors.New("invalid run")
)
