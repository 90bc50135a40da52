package catalog

import "errors"

// Sentinel kinds for seed errors.
var (
	ErrInvalidSeed = errors.New("invalid activity seed")
	ErrLoadSeed    = errors.New("load activity seed failed")
)
