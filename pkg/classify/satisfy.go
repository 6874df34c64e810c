package classify

import (
	"context"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// DepChecker answers which of a batch of dependencies are not currently
// satisfiable on the system. The verdict echoes the unsatisfied subset of
// the deps it was given; constraint evaluation happens on the checker's
// side, not here.
type DepChecker interface {
	MissingDeps(ctx context.Context, deps []model.Dep) ([]model.Dep, error)
}

// Satisfaction carries both sides of a satisfaction check. Every input
// dependency lands on exactly one side, so with a non-empty input at least
// one side is non-empty.
type Satisfaction struct {
	Unsatisfied []model.Dep
	Satisfied   []model.Dep
}

// Complete reports whether every checked dependency was satisfied.
func (s *Satisfaction) Complete() bool { return len(s.Unsatisfied) == 0 }

// UnsatisfiedNames lists the names of the unsatisfied dependencies.
func (s *Satisfaction) UnsatisfiedNames() []model.PkgName {
	names := make([]model.PkgName, 0, len(s.Unsatisfied))
	for _, d := range s.Unsatisfied {
		names = append(names, d.Name)
	}
	return names
}

// CheckSatisfaction issues one batched query for the whole dependency set
// and splits it by the checker's verdict. A dependency without a version
// constraint is satisfied by any installed provider; a constrained one is
// unsatisfied whenever the checker echoed it back.
func CheckSatisfaction(ctx context.Context, checker DepChecker, deps []model.Dep) (*Satisfaction, error) {
	batch := dedupDeps(deps)
	if len(batch) == 0 {
		return nil, errors.ErrNoPackagesRequested
	}

	missing, err := checker.MissingDeps(ctx, batch)
	if err != nil {
		return nil, errors.Wrap(err, "dependency check failed")
	}

	unsat := make(map[string]struct{}, len(missing))
	for _, d := range missing {
		unsat[d.String()] = struct{}{}
	}

	out := &Satisfaction{}
	for _, d := range batch {
		if _, ok := unsat[d.String()]; ok {
			out.Unsatisfied = append(out.Unsatisfied, d)
		} else {
			out.Satisfied = append(out.Satisfied, d)
		}
	}
	return out, nil
}

// dedupDeps drops exact duplicates while preserving first-seen order.
func dedupDeps(deps []model.Dep) []model.Dep {
	seen := make(map[string]struct{}, len(deps))
	out := make([]model.Dep, 0, len(deps))
	for _, d := range deps {
		key := d.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}
