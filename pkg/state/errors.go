package state

import "fmt"

// Common state errors.
var (
	// ErrStateCorrupt is returned when a snapshot file cannot be decoded.
	ErrStateCorrupt = fmt.Errorf("state snapshot is corrupt")

	// ErrSnapshotNotFound is returned when a requested snapshot does not exist.
	ErrSnapshotNotFound = fmt.Errorf("state snapshot not found")

	// ErrNoSnapshots is returned when the store holds no snapshots at all.
	ErrNoSnapshots = fmt.Errorf("no saved states")
)
