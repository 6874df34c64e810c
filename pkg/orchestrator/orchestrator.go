// Package orchestrator drives the install and upgrade flows: resolve
// requested names across the source cascade, stage the results into waves,
// install prebuilt packages in one batch and build the rest wave by wave.
// A wave's artifacts are installed before the next wave builds, so later
// recipes always build against satisfied dependencies.
package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/aurumpkg/aurum/internal/logger"
	"github.com/aurumpkg/aurum/pkg/classify"
	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
	"github.com/aurumpkg/aurum/pkg/version"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Install resolves the requested names and installs everything that
// resolved: prebuilt packages through one batched database call, buildable
// recipes wave by wave. Names that resolve nowhere are logged and skipped;
// when nothing resolves the flow aborts before touching the system.
func (o *Orchestrator) Install(ctx context.Context, names []model.PkgName, opts InstallOptions) error {
	if len(names) == 0 {
		return errors.ErrNoPackagesRequested
	}
	if o.Repo == nil || o.DB == nil || o.Planner == nil {
		return fmt.Errorf("orchestrator is not fully configured")
	}

	targets := names
	if opts.SkipSatisfied {
		emit(o.Hooks, Event{Phase: "checking", Msg: "checking which requests are already satisfied"})
		remaining, err := o.dropSatisfied(ctx, names)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			emit(o.Hooks, Event{Phase: "done", Msg: "nothing to do"})
			return nil
		}
		targets = remaining
	}

	emit(o.Hooks, Event{Phase: "resolving", Msg: fmt.Sprintf("resolving %d packages", len(targets))})
	res, err := o.Repo.Lookup(ctx, targets)
	if err != nil {
		return errors.Wrap(err, "resolving packages")
	}
	for _, name := range res.Unresolved {
		logger.Warnf("No package found for %s, skipping", name)
	}
	if len(res.Resolved) == 0 {
		return errors.Wrap(errors.ErrResolution, "none of the requested packages could be resolved")
	}

	emit(o.Hooks, Event{Phase: "planning", Msg: fmt.Sprintf("staging %d packages", len(res.Resolved))})
	parts, err := o.stage(ctx, res.Resolved)
	if err != nil {
		return err
	}

	if opts.DryRun {
		o.emitPlan(parts)
		return nil
	}

	return o.apply(ctx, parts, opts.SkipSatisfied)
}

// Upgrade checks every foreign package against the source cascade and
// rebuilds the ones whose remote version is newer, using the version
// fallback policy for versions that do not parse.
func (o *Orchestrator) Upgrade(ctx context.Context, opts UpgradeOptions) error {
	if o.Repo == nil || o.DB == nil || o.Planner == nil {
		return fmt.Errorf("orchestrator is not fully configured")
	}

	emit(o.Hooks, Event{Phase: "checking", Msg: "listing foreign packages"})
	foreign, err := o.DB.Foreign(ctx)
	if err != nil {
		return errors.Wrap(err, "listing foreign packages")
	}
	if len(foreign) == 0 {
		logger.Infof("No foreign packages installed.")
		emit(o.Hooks, Event{Phase: "done", Msg: "nothing to do"})
		return nil
	}

	names := make([]model.PkgName, 0, len(foreign))
	for name := range foreign {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	emit(o.Hooks, Event{Phase: "resolving", Msg: fmt.Sprintf("checking %d foreign packages", len(names))})
	res, err := o.Repo.Lookup(ctx, names)
	if err != nil {
		return errors.Wrap(err, "resolving foreign packages")
	}
	for _, name := range res.Unresolved {
		logger.Debugf("%s is unknown to every source, skipping", name)
	}

	stale := o.staleForeign(foreign, res.Resolved)
	if len(stale) == 0 {
		logger.Infof("All foreign packages are up to date.")
		emit(o.Hooks, Event{Phase: "done", Msg: "nothing to do"})
		return nil
	}

	if opts.DryRun {
		for _, p := range stale {
			emit(o.Hooks, Event{
				Phase: "planning",
				ID:    string(p.Name),
				Msg:   fmt.Sprintf("%s -> %s", foreign[p.Name], p.Version),
			})
		}
		emit(o.Hooks, Event{Phase: "done", Msg: "dry-run"})
		return nil
	}

	pkgs := make([]model.Package, 0, len(stale))
	for _, p := range stale {
		pkgs = append(pkgs, p)
	}
	parts, err := o.stage(ctx, pkgs)
	if err != nil {
		return err
	}
	return o.apply(ctx, parts, true)
}

// dropSatisfied strips requested names the system already satisfies. Every
// request is checked in one batched query; skips are logged per name.
func (o *Orchestrator) dropSatisfied(ctx context.Context, names []model.PkgName) ([]model.PkgName, error) {
	deps := make([]model.Dep, 0, len(names))
	for _, name := range names {
		deps = append(deps, model.Dep{Name: name})
	}
	sat, err := classify.CheckSatisfaction(ctx, o.DB, deps)
	if err != nil {
		return nil, err
	}
	for _, d := range sat.Satisfied {
		logger.Infof("%s is already installed, skipping", d.Name)
	}
	return sat.UnsatisfiedNames(), nil
}

// stage plans the resolved packages into waves and partitions each wave by
// build method.
func (o *Orchestrator) stage(ctx context.Context, pkgs []model.Package) (*classify.Partitioned, error) {
	waves, err := o.Planner.Plan(ctx, pkgs)
	if err != nil {
		return nil, errors.Wrap(err, "staging install waves")
	}
	return classify.Partition(waves)
}

// emitPlan reports what a real run would do, one event per package.
func (o *Orchestrator) emitPlan(parts *classify.Partitioned) {
	for _, p := range parts.Prebuilt {
		emit(o.Hooks, Event{
			Phase: "planning",
			ID:    string(p.Name),
			Msg:   fmt.Sprintf("install %s from %s", p.Version, p.Repo),
		})
	}
	for i, wave := range parts.BuildWaves {
		for _, p := range wave {
			emit(o.Hooks, Event{
				Phase: "planning",
				ID:    string(p.Name),
				Msg:   fmt.Sprintf("build %s (wave %d)", p.Version, i+1),
			})
		}
	}
	emit(o.Hooks, Event{Phase: "done", Msg: "dry-run"})
}

// apply executes a staged plan: recipe dependencies the run itself does not
// provide are installed first, then the prebuilt batch, then each build
// wave with its artifacts installed before the next wave starts.
func (o *Orchestrator) apply(ctx context.Context, parts *classify.Partitioned, needed bool) error {
	if err := o.installBuildDeps(ctx, parts); err != nil {
		return err
	}

	if len(parts.Prebuilt) > 0 {
		names := make([]model.PkgName, 0, len(parts.Prebuilt))
		for _, p := range parts.Prebuilt {
			names = append(names, p.Name)
		}
		emit(o.Hooks, Event{Phase: "installing", Msg: fmt.Sprintf("installing %d official packages", len(names))})
		if err := o.DB.Install(ctx, names, needed); err != nil {
			return errors.Wrap(err, "installing official packages")
		}
	}

	if len(parts.BuildWaves) > 0 && o.Builder == nil {
		return fmt.Errorf("wave builder is not configured")
	}
	for i, wave := range parts.BuildWaves {
		emit(o.Hooks, Event{
			Phase: "building",
			ID:    fmt.Sprintf("wave %d", i+1),
			Msg:   fmt.Sprintf("building %d packages", len(wave)),
		})
		artifacts, err := o.Builder.BuildWave(ctx, wave)
		if err != nil {
			return errors.Wrapf(err, "build wave %d", i+1)
		}
		emit(o.Hooks, Event{
			Phase: "installing",
			ID:    fmt.Sprintf("wave %d", i+1),
			Msg:   fmt.Sprintf("installing %d built packages", len(artifacts)),
		})
		if err := o.DB.InstallFiles(ctx, artifacts); err != nil {
			return errors.Wrapf(err, "installing build wave %d", i+1)
		}
	}

	emit(o.Hooks, Event{Phase: "done"})
	return nil
}

// installBuildDeps installs, in one batch, the recipe dependencies that are
// neither satisfied on the system nor provided by the staged run itself.
// Dependencies built in earlier waves are provided by the wave barrier.
func (o *Orchestrator) installBuildDeps(ctx context.Context, parts *classify.Partitioned) error {
	provided := make(map[model.PkgName]struct{})
	for _, p := range parts.Prebuilt {
		provided[p.Name] = struct{}{}
	}
	var deps []model.Dep
	for _, wave := range parts.BuildWaves {
		for _, p := range wave {
			provided[p.Name] = struct{}{}
			deps = append(deps, p.Depends...)
			deps = append(deps, p.MakeDepends...)
		}
	}
	if len(deps) == 0 {
		return nil
	}

	sat, err := classify.CheckSatisfaction(ctx, o.DB, deps)
	if err != nil {
		return err
	}

	var missing []model.PkgName
	seen := make(map[model.PkgName]struct{})
	for _, d := range sat.Unsatisfied {
		if _, ok := provided[d.Name]; ok {
			continue
		}
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		missing = append(missing, d.Name)
	}
	if len(missing) == 0 {
		return nil
	}

	emit(o.Hooks, Event{Phase: "installing", Msg: fmt.Sprintf("installing %d build dependencies", len(missing))})
	if err := o.DB.Install(ctx, missing, true); err != nil {
		return errors.Wrap(err, "installing build dependencies")
	}
	return nil
}

// staleForeign keeps the buildable resolutions whose remote version beats
// the locally installed one. Foreign packages that turn out to live in an
// official repository are left to the system upgrade.
func (o *Orchestrator) staleForeign(foreign map[model.PkgName]string, resolved []model.Package) []model.Buildable {
	var stale []model.Buildable
	for _, pkg := range resolved {
		switch p := pkg.(type) {
		case model.Prebuilt:
			logger.Infof("%s is available from repository %s, leaving it to the system upgrade", p.Name, p.Repo)
		case model.Buildable:
			local, ok := foreign[p.Name]
			if !ok {
				continue
			}
			if version.Outdated(local, p.Version) {
				logger.Infof("%s: %s -> %s", p.Name, local, p.Version)
				stale = append(stale, p)
			}
		}
	}
	return stale
}
