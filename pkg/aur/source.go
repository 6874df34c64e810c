package aur

import (
	"context"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/repository"
)

// source adapts Client to the repository.Source lookup contract.
type source struct {
	client *Client
}

// NewSource exposes the AUR as a package source. Lookup hits resolve to
// Buildable packages.
func NewSource(client *Client) repository.Source {
	return &source{client: client}
}

func (s *source) Name() string { return "aur" }

func (s *source) Lookup(ctx context.Context, names []model.PkgName) (*repository.Result, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrNoPackagesRequested, "aur lookup")
	}

	records, err := s.client.Info(ctx, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[model.PkgName]Record, len(records))
	for _, rec := range records {
		byName[model.PkgName(rec.Name)] = rec
	}

	var res repository.Result
	for _, name := range names {
		rec, ok := byName[name]
		if !ok {
			res.Unresolved = append(res.Unresolved, name)
			continue
		}
		res.Resolved = append(res.Resolved, s.client.Buildable(rec))
	}

	return &res, nil
}
