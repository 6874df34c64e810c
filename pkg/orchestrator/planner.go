package orchestrator

import (
	"context"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// SingleWavePlanner stages every resolved package into one wave. Packages
// whose dependencies live in the same run must be staged into separate
// waves by a smarter planner; this one covers the common case of
// independent targets.
type SingleWavePlanner struct{}

// Plan implements WavePlanner.
func (SingleWavePlanner) Plan(_ context.Context, pkgs []model.Package) ([][]model.Package, error) {
	if len(pkgs) == 0 {
		return nil, errors.ErrNoPackagesRequested
	}
	return [][]model.Package{pkgs}, nil
}
