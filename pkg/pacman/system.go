// Package pacman drives the system package database through the pacman
// command line tool: queries over the installed set, sync database info,
// dependency satisfaction checks, and batched install/remove transactions.
package pacman

import (
	"context"
	"strings"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/executor"
	"github.com/aurumpkg/aurum/pkg/model"
)

// DefaultBinary is the pacman executable used when none is configured.
const DefaultBinary = "pacman"

// System wraps a pacman binary behind typed operations. Mutating calls are
// escalated through the Runner; queries run unprivileged.
type System struct {
	run       executor.Runner
	binary    string
	noConfirm bool
}

// New creates a System using the given runner. An empty binary selects
// DefaultBinary. With noConfirm set, mutating calls pass --noconfirm.
func New(run executor.Runner, binary string, noConfirm bool) *System {
	if binary == "" {
		binary = DefaultBinary
	}
	return &System{run: run, binary: binary, noConfirm: noConfirm}
}

// Installed returns every installed package with its raw version string,
// from `pacman -Q`.
func (s *System) Installed(ctx context.Context) (map[model.PkgName]string, error) {
	stdout, stderr, err := s.run.Output(ctx, s.binary, "-Q")
	if err != nil {
		return nil, errors.Wrapf(err, "pacman -Q failed: %s", strings.TrimSpace(stderr))
	}
	return parseQuery(stdout), nil
}

// Foreign returns packages not found in any sync database, from
// `pacman -Qm`. On an Arch system these are the AUR (and manually
// installed) packages.
func (s *System) Foreign(ctx context.Context) (map[model.PkgName]string, error) {
	stdout, stderr, err := s.run.Output(ctx, s.binary, "-Qm")
	if err != nil {
		return nil, errors.Wrapf(err, "pacman -Qm failed: %s", strings.TrimSpace(stderr))
	}
	return parseQuery(stdout), nil
}

// SyncInfo looks names up in the sync databases with one batched
// `pacman -Si` call. Names that exist come back as Prebuilt packages;
// names pacman reports as not found come back in notFound. Any other
// failure is an error.
func (s *System) SyncInfo(ctx context.Context, names []model.PkgName) ([]model.Prebuilt, []model.PkgName, error) {
	if len(names) == 0 {
		return nil, nil, errors.Wrap(errors.ErrNoPackagesRequested, "sync info")
	}

	args := append([]string{"-Si"}, namesToArgs(names)...)
	stdout, stderr, err := s.run.Output(ctx, s.binary, args...)
	if err != nil && !onlyNotFoundErrors(stderr) {
		return nil, nil, errors.Wrapf(err, "pacman -Si failed: %s", strings.TrimSpace(stderr))
	}

	found := parseSyncInfo(stdout)

	resolved := make(map[model.PkgName]bool, len(found))
	for _, p := range found {
		resolved[p.Name] = true
	}
	var notFound []model.PkgName
	for _, name := range names {
		if !resolved[name] {
			notFound = append(notFound, name)
		}
	}

	return found, notFound, nil
}

// MissingDeps returns the subset of deps the installed system does not
// satisfy, using one batched `pacman -T` call. pacman echoes unsatisfied
// dep strings on stdout and exits non-zero; an empty echo with a non-zero
// exit is a real failure.
func (s *System) MissingDeps(ctx context.Context, deps []model.Dep) ([]model.Dep, error) {
	if len(deps) == 0 {
		return nil, errors.Wrap(errors.ErrNoPackagesRequested, "dependency check")
	}

	args := make([]string, 0, len(deps)+1)
	args = append(args, "-T")
	for _, d := range deps {
		args = append(args, d.String())
	}

	stdout, stderr, err := s.run.Output(ctx, s.binary, args...)
	if err == nil {
		return nil, nil
	}

	var missing []model.Dep
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		missing = append(missing, model.ParseDep(line))
	}
	if len(missing) == 0 {
		return nil, errors.Wrapf(err, "pacman -T failed: %s", strings.TrimSpace(stderr))
	}
	return missing, nil
}

// Install installs repository packages with one batched `pacman -S` call.
func (s *System) Install(ctx context.Context, names []model.PkgName, needed bool) error {
	if len(names) == 0 {
		return errors.Wrap(errors.ErrNoPackagesRequested, "install")
	}

	args := []string{"-S"}
	if needed {
		args = append(args, "--needed")
	}
	args = s.appendConfirmFlag(args)
	args = append(args, namesToArgs(names)...)

	return s.run.RunSudo(ctx, s.binary, args...)
}

// InstallFiles installs built artifact files with one batched
// `pacman -U` call.
func (s *System) InstallFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.Wrap(errors.ErrNoPackagesRequested, "install files")
	}

	args := s.appendConfirmFlag([]string{"-U"})
	args = append(args, paths...)

	return s.run.RunSudo(ctx, s.binary, args...)
}

// Remove removes installed packages with one batched `pacman -R` call.
func (s *System) Remove(ctx context.Context, names []model.PkgName) error {
	if len(names) == 0 {
		return errors.Wrap(errors.ErrNoPackagesRequested, "remove")
	}

	args := s.appendConfirmFlag([]string{"-R"})
	args = append(args, namesToArgs(names)...)

	return s.run.RunSudo(ctx, s.binary, args...)
}

func (s *System) appendConfirmFlag(args []string) []string {
	if s.noConfirm {
		return append(args, "--noconfirm")
	}
	return args
}

func namesToArgs(names []model.PkgName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
