//go:generate mockgen -destination=./mocks/orchestrator.go . Resolver,PackageDB,WaveBuilder,WavePlanner

package orchestrator

import (
	"context"

	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/repository"
)

// Resolver is the subset of the repository cascade used by the orchestrator.
type Resolver interface {
	Lookup(ctx context.Context, names []model.PkgName) (*repository.Result, error)
}

// PackageDB is the subset of the package database service used by the
// orchestrator. MissingDeps doubles as the classify.DepChecker verdict.
type PackageDB interface {
	Foreign(ctx context.Context) (map[model.PkgName]string, error)
	MissingDeps(ctx context.Context, deps []model.Dep) ([]model.Dep, error)
	Install(ctx context.Context, names []model.PkgName, needed bool) error
	InstallFiles(ctx context.Context, paths []string) error
}

// WaveBuilder builds one wave of recipes and returns the artifact paths.
type WaveBuilder interface {
	BuildWave(ctx context.Context, wave []model.Buildable) ([]string, error)
}

// WavePlanner stages resolved packages into dependency-ordered waves.
// Earlier waves must be installed before later waves build.
type WavePlanner interface {
	Plan(ctx context.Context, pkgs []model.Package) ([][]model.Package, error)
}

// Orchestrator ties Resolver, PackageDB, WavePlanner and WaveBuilder
// together for the install and upgrade flows.
type Orchestrator struct {
	Repo    Resolver
	DB      PackageDB
	Planner WavePlanner
	Builder WaveBuilder
	Hooks   Hooks // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // checking|resolving|planning|building|installing|done
	ID    string // package or wave the event concerns
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// InstallOptions control orchestrator install execution.
type InstallOptions struct {
	// SkipSatisfied skips requested names the system already satisfies and
	// forwards --needed to the package database for prebuilt installs.
	SkipSatisfied bool
	DryRun        bool
}

// UpgradeOptions control orchestrator upgrade execution.
type UpgradeOptions struct {
	DryRun bool
}

// New constructs an Orchestrator from existing collaborators. Helper for
// wiring. Hooks can be zero-valued if no event handling is needed.
func New(repo Resolver, db PackageDB, planner WavePlanner, builder WaveBuilder, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Repo:    repo,
		DB:      db,
		Planner: planner,
		Builder: builder,
		Hooks:   hooks,
	}
}
