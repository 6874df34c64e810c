package classify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// fakeChecker echoes a fixed unsatisfied subset and records its calls.
type fakeChecker struct {
	missing []model.Dep
	err     error
	calls   [][]model.Dep
}

func (f *fakeChecker) MissingDeps(_ context.Context, deps []model.Dep) ([]model.Dep, error) {
	f.calls = append(f.calls, append([]model.Dep(nil), deps...))
	if f.err != nil {
		return nil, f.err
	}
	return f.missing, nil
}

func TestCheckSatisfactionCarriesBothSides(t *testing.T) {
	// a is installed at any version; b is installed but too old for >=2.
	deps := []model.Dep{
		{Name: "a"},
		{Name: "b", Constraint: ">=2"},
	}
	checker := &fakeChecker{missing: []model.Dep{{Name: "b", Constraint: ">=2"}}}

	got, err := CheckSatisfaction(context.Background(), checker, deps)
	require.NoError(t, err)

	assert.Equal(t, []model.Dep{{Name: "b", Constraint: ">=2"}}, got.Unsatisfied)
	assert.Equal(t, []model.Dep{{Name: "a"}}, got.Satisfied)
	assert.False(t, got.Complete())
	assert.Equal(t, []model.PkgName{"b"}, got.UnsatisfiedNames())
}

func TestCheckSatisfactionIssuesOneBatchedQuery(t *testing.T) {
	deps := []model.Dep{
		{Name: "glibc", Constraint: ">=2.28"},
		{Name: "zlib"},
		{Name: "openssl"},
	}
	checker := &fakeChecker{}

	_, err := CheckSatisfaction(context.Background(), checker, deps)
	require.NoError(t, err)

	require.Len(t, checker.calls, 1, "the whole set must go out in one query")
	assert.Equal(t, deps, checker.calls[0])
}

func TestCheckSatisfactionConstraintVerdictIsPerDepString(t *testing.T) {
	// The same name can be satisfied unconstrained yet fail a constraint.
	deps := []model.Dep{
		{Name: "foo"},
		{Name: "foo", Constraint: ">=2"},
	}
	checker := &fakeChecker{missing: []model.Dep{{Name: "foo", Constraint: ">=2"}}}

	got, err := CheckSatisfaction(context.Background(), checker, deps)
	require.NoError(t, err)

	assert.Equal(t, []model.Dep{{Name: "foo"}}, got.Satisfied)
	assert.Equal(t, []model.Dep{{Name: "foo", Constraint: ">=2"}}, got.Unsatisfied)
}

func TestCheckSatisfactionAllSatisfied(t *testing.T) {
	deps := []model.Dep{{Name: "glibc"}, {Name: "zlib"}}
	checker := &fakeChecker{}

	got, err := CheckSatisfaction(context.Background(), checker, deps)
	require.NoError(t, err)

	assert.True(t, got.Complete())
	assert.Empty(t, got.Unsatisfied)
	assert.Len(t, got.Satisfied, len(deps))
}

func TestCheckSatisfactionEverythingLandsSomewhere(t *testing.T) {
	deps := []model.Dep{
		{Name: "a"},
		{Name: "b", Constraint: ">=2"},
		{Name: "c", Constraint: "<5"},
	}
	checker := &fakeChecker{missing: []model.Dep{{Name: "c", Constraint: "<5"}}}

	got, err := CheckSatisfaction(context.Background(), checker, deps)
	require.NoError(t, err)

	// Never neither: each dep is on exactly one side.
	assert.Equal(t, len(deps), len(got.Satisfied)+len(got.Unsatisfied))
}

func TestCheckSatisfactionDeduplicates(t *testing.T) {
	deps := []model.Dep{{Name: "zlib"}, {Name: "zlib"}}
	checker := &fakeChecker{}

	got, err := CheckSatisfaction(context.Background(), checker, deps)
	require.NoError(t, err)

	require.Len(t, checker.calls, 1)
	assert.Equal(t, []model.Dep{{Name: "zlib"}}, checker.calls[0])
	assert.Len(t, got.Satisfied, 1)
}

func TestCheckSatisfactionRejectsEmptyInput(t *testing.T) {
	_, err := CheckSatisfaction(context.Background(), &fakeChecker{}, nil)
	assert.ErrorIs(t, err, errors.ErrNoPackagesRequested)
}

func TestCheckSatisfactionPropagatesCheckerFailure(t *testing.T) {
	checker := &fakeChecker{err: fmt.Errorf("database locked")}

	_, err := CheckSatisfaction(context.Background(), checker, []model.Dep{{Name: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency check failed")
	assert.Contains(t, err.Error(), "database locked")
}
