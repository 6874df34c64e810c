package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// Cache holds packages resolved earlier in the same run, keyed by name.
// It is safe for concurrent use and is never invalidated mid-run.
type Cache struct {
	mu      sync.RWMutex
	entries map[model.PkgName]model.Package
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[model.PkgName]model.Package)}
}

// Get returns the cached package for name, if any.
func (c *Cache) Get(name model.PkgName) (model.Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pkg, ok := c.entries[name]
	return pkg, ok
}

// Put records a resolved package under its name.
func (c *Cache) Put(pkg model.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[model.PackageName(pkg)] = pkg
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cachedSource consults the cache before querying the underlying source and
// records everything the source resolves. The fill lock guarantees that
// concurrent lookups populate each name at most once: queries for names that
// turn out to be cache misses are serialized, and misses are re-checked
// against the cache after the lock is acquired.
type cachedSource struct {
	src    Source
	cache  *Cache
	fillMu sync.Mutex
}

// Cached wraps src with the given cache.
func Cached(src Source, cache *Cache) Source {
	return &cachedSource{src: src, cache: cache}
}

func (s *cachedSource) Name() string { return s.src.Name() }

func (s *cachedSource) Lookup(ctx context.Context, names []model.PkgName) (*Result, error) {
	requested := dedupNames(names)
	if len(requested) == 0 {
		return nil, errors.ErrNoPackagesRequested
	}

	var hits []model.Package
	var misses []model.PkgName
	for _, name := range requested {
		if pkg, ok := s.cache.Get(name); ok {
			hits = append(hits, pkg)
		} else {
			misses = append(misses, name)
		}
	}
	if len(misses) == 0 {
		return &Result{Resolved: hits}, nil
	}

	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	// A concurrent lookup may have filled some names while we waited.
	remaining := make([]model.PkgName, 0, len(misses))
	for _, name := range misses {
		if pkg, ok := s.cache.Get(name); ok {
			hits = append(hits, pkg)
		} else {
			remaining = append(remaining, name)
		}
	}
	if len(remaining) == 0 {
		return &Result{Resolved: hits}, nil
	}

	res, err := s.src.Lookup(ctx, remaining)
	if err != nil {
		return nil, err
	}
	for _, pkg := range res.Resolved {
		s.cache.Put(pkg)
	}

	return &Result{
		Unresolved: res.Unresolved,
		Resolved:   append(hits, res.Resolved...),
	}, nil
}

// timeoutSource bounds every lookup with a deadline. A deadline hit is a
// total failure of the source, not an empty result.
type timeoutSource struct {
	src Source
	d   time.Duration
}

// WithTimeout wraps src so each lookup runs under its own deadline.
// A non-positive duration leaves src unwrapped.
func WithTimeout(src Source, d time.Duration) Source {
	if d <= 0 {
		return src
	}
	return &timeoutSource{src: src, d: d}
}

func (s *timeoutSource) Name() string { return s.src.Name() }

func (s *timeoutSource) Lookup(ctx context.Context, names []model.PkgName) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.src.Lookup(ctx, names)
}
