package download

import (
	"context"
	"net/url"
)

// Manager fetches remote files, primarily AUR snapshot tarballs, into a
// local directory. Batches are de-duplicated by URL so split packages
// sharing one tarball download it once.
type Manager interface {
	// FetchAll downloads every item and returns a map from Item.ID to the
	// absolute local file path.
	FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error)

	// Fetch downloads a single item to a deterministic location inside
	// opts.Dir and returns the absolute local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item is one remote file to download.
type Item struct {
	ID       string   // unique within a batch, typically the package base
	URL      *url.URL // source URL
	Checksum string   // optional hex SHA-256; verified when set
	Filename string   // optional destination name; derived when empty
}

// Options control a fetch batch.
type Options struct {
	Dir         string // destination directory, must be absolute
	Concurrency int    // parallel downloads; <=0 selects a default
}
