package pacman

import (
	"context"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/repository"
)

// source adapts System to the repository.Source lookup contract.
type source struct {
	sys *System
}

// NewSource exposes the official sync databases as a package source.
func NewSource(sys *System) repository.Source {
	return &source{sys: sys}
}

func (s *source) Name() string { return "pacman" }

func (s *source) Lookup(ctx context.Context, names []model.PkgName) (*repository.Result, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrNoPackagesRequested, "pacman lookup")
	}

	found, notFound, err := s.sys.SyncInfo(ctx, names)
	if err != nil {
		return nil, err
	}

	resolved := make([]model.Package, 0, len(found))
	for _, p := range found {
		resolved = append(resolved, p)
	}

	return &repository.Result{Unresolved: notFound, Resolved: resolved}, nil
}
