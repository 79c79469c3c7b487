package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	ErrZeroWeight      = errors.New("adjusted weights sum to zero")
	ErrNonFiniteWeight = errors.New("adjusted weights do not sum to a finite value")
	ErrLengthMismatch  = errors.New("weight and modifier lengths differ")
)
