package classify

import "fmt"

// Common classification errors.
var (
	// ErrNoWaves is returned when a partition is requested over zero waves.
	ErrNoWaves = fmt.Errorf("no dependency waves given")

	// ErrEmptyWave is returned when a wave contains no packages.
	ErrEmptyWave = fmt.Errorf("dependency wave cannot be empty")
)
