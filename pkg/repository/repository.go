// Package repository implements cascading package resolution over an
// ordered list of sources. Each source answers a batched lookup with the
// packages it knows and the names it could not resolve; combining sources
// forwards only the unresolved remainder to the next source in line.
package repository

import (
	"context"
	"strings"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// Result is the outcome of a successful lookup. A non-nil Result with
// unresolved names means "looked everywhere, some names are unknown", which
// is distinct from a lookup error (source unreachable, timed out).
type Result struct {
	Unresolved []model.PkgName
	Resolved   []model.Package
}

// FullyResolved reports whether every requested name was resolved.
func (r *Result) FullyResolved() bool { return len(r.Unresolved) == 0 }

// Source resolves a non-empty batch of package names. Returning an error
// signals total failure of the source; it never means "nothing found".
type Source interface {
	Name() string
	Lookup(ctx context.Context, names []model.PkgName) (*Result, error)
}

// combined queries sources strictly in priority order, forwarding only the
// names earlier sources left unresolved.
type combined struct {
	sources []Source
}

// Combine builds a Source that cascades over the given sources in argument
// order. The signature requires at least one source.
func Combine(first Source, rest ...Source) Source {
	if len(rest) == 0 {
		return first
	}
	return &combined{sources: append([]Source{first}, rest...)}
}

func (c *combined) Name() string {
	names := make([]string, 0, len(c.sources))
	for _, src := range c.sources {
		names = append(names, src.Name())
	}
	return strings.Join(names, "+")
}

func (c *combined) Lookup(ctx context.Context, names []model.PkgName) (*Result, error) {
	remaining := dedupNames(names)
	if len(remaining) == 0 {
		return nil, errors.ErrNoPackagesRequested
	}

	var resolved []model.Package
	for _, src := range c.sources {
		res, err := src.Lookup(ctx, remaining)
		if err != nil {
			// Total failure of one source poisons the whole cascade.
			return nil, errors.Wrapf(err, "source %s failed", src.Name())
		}
		resolved = append(resolved, res.Resolved...)
		remaining = res.Unresolved
		if len(remaining) == 0 {
			break
		}
	}

	return &Result{Unresolved: remaining, Resolved: resolved}, nil
}

// dedupNames drops duplicate names while preserving first-seen order.
func dedupNames(names []model.PkgName) []model.PkgName {
	seen := make(map[model.PkgName]struct{}, len(names))
	out := make([]model.PkgName, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
