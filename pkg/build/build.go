// Package build turns AUR recipes into installable package artifacts.
// A wave of recipes is processed in two stages: snapshot tarballs are
// fetched in one batch, then each package base is extracted and built
// with makepkg under a bounded worker pool. Finished artifacts are moved
// into the package cache so later restores can reuse them.
package build

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aurumpkg/aurum/internal/logger"
	"github.com/aurumpkg/aurum/pkg/download"
	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/fsutil"
	"github.com/aurumpkg/aurum/pkg/model"
)

// DefaultMakepkg is the command used to build a recipe.
const DefaultMakepkg = "makepkg"

// Fetcher is the subset of download.Manager the builder needs.
type Fetcher interface {
	FetchAll(ctx context.Context, items []download.Item, opts download.Options) (map[string]string, error)
}

// Extractor unpacks a snapshot tarball into a directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Runner is the subset of command execution the builder needs. Both
// methods take an explicit working directory because makepkg operates on
// whatever recipe directory it is started in.
type Runner interface {
	RunIn(ctx context.Context, dir, name string, args ...string) error
	OutputIn(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// Options configure a Builder.
type Options struct {
	// BuildDir hosts the source trees. Must be absolute.
	BuildDir string
	// SnapshotDir receives downloaded snapshot tarballs; empty selects
	// BuildDir/snapshots.
	SnapshotDir string
	// CacheDir receives finished artifacts. Must be absolute.
	CacheDir string
	// Makepkg overrides the build command; empty selects DefaultMakepkg.
	Makepkg string
	// Workers bounds concurrent builds within a wave; <=0 selects
	// runtime.NumCPU().
	Workers int
	// NoConfirm forwards --noconfirm to the pacman calls makepkg makes.
	NoConfirm bool
}

// Builder drives makepkg over waves of recipes.
type Builder struct {
	fetch   Fetcher
	extract Extractor
	run     Runner
	opts    Options
}

// New creates a Builder.
func New(fetch Fetcher, extract Extractor, run Runner, opts Options) *Builder {
	if opts.Makepkg == "" {
		opts.Makepkg = DefaultMakepkg
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Builder{fetch: fetch, extract: extract, run: run, opts: opts}
}

// baseGroup collects the recipes of a wave that share one package base
// and therefore one snapshot tarball and one makepkg run.
type baseGroup struct {
	base    model.PkgName
	version string
	url     string
	pkgs    []model.Buildable
}

// BuildWave builds every recipe in the wave and returns the artifact
// paths, in wave order, of the packages that were asked for. Split
// packages sharing a base are built once; artifacts the wave did not ask
// for are still moved to the cache but not returned. The first build
// failure cancels the remaining builds.
func (b *Builder) BuildWave(ctx context.Context, wave []model.Buildable) ([]string, error) {
	if len(wave) == 0 {
		return nil, errors.Wrap(errors.ErrNoPackagesRequested, "build wave")
	}
	if !filepath.IsAbs(b.opts.BuildDir) {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "build dir %q must be absolute", b.opts.BuildDir)
	}
	if !filepath.IsAbs(b.opts.CacheDir) {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "cache dir %q must be absolute", b.opts.CacheDir)
	}
	if err := os.MkdirAll(b.opts.CacheDir, fsutil.DirModeDefault); err != nil {
		return nil, errors.Wrap(err, "creating package cache directory")
	}

	groups := groupByBase(wave)

	tarballs, err := b.fetchSnapshots(ctx, groups)
	if err != nil {
		return nil, err
	}

	perGroup := make([][]string, len(groups))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.opts.Workers)
	for i, g := range groups {
		eg.Go(func() error {
			artifacts, err := b.buildOne(ctx, g, tarballs[string(g.base)])
			if err != nil {
				return err
			}
			perGroup[i] = artifacts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, artifacts := range perGroup {
		all = append(all, artifacts...)
	}
	return all, nil
}

// fetchSnapshots downloads one tarball per package base and returns the
// local paths keyed by base name.
func (b *Builder) fetchSnapshots(ctx context.Context, groups []baseGroup) (map[string]string, error) {
	items := make([]download.Item, 0, len(groups))
	for _, g := range groups {
		u, err := url.Parse(g.url)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid snapshot URL for %s", g.base)
		}
		// The filename carries the resolved version so a tarball cached
		// by an earlier run is never mistaken for the current release.
		items = append(items, download.Item{
			ID:       string(g.base),
			URL:      u,
			Filename: string(g.base) + "-" + g.version + ".tar.gz",
		})
	}

	dir := b.opts.SnapshotDir
	if dir == "" {
		dir = filepath.Join(b.opts.BuildDir, "snapshots")
	}
	opts := download.Options{
		Dir:         dir,
		Concurrency: b.opts.Workers,
	}
	tarballs, err := b.fetch.FetchAll(ctx, items, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fetching snapshots")
	}
	return tarballs, nil
}

// buildOne extracts a snapshot, runs makepkg in the recipe directory and
// moves every produced artifact into the cache. It returns the cached
// paths of the artifacts the group asked for.
func (b *Builder) buildOne(ctx context.Context, g baseGroup, tarball string) ([]string, error) {
	srcParent := filepath.Join(b.opts.BuildDir, "src")
	srcDir := filepath.Join(srcParent, string(g.base))

	// Stale trees from earlier runs confuse makepkg, start clean.
	if err := os.RemoveAll(srcDir); err != nil {
		return nil, errors.Wrapf(err, "clearing build tree for %s", g.base)
	}
	if err := b.extract.Extract(ctx, tarball, srcParent); err != nil {
		return nil, errors.Wrapf(err, "extracting snapshot for %s", g.base)
	}
	if _, err := os.Stat(filepath.Join(srcDir, "PKGBUILD")); err != nil {
		return nil, errors.Wrapf(errors.ErrBuildFailed, "snapshot for %s contains no PKGBUILD", g.base)
	}

	logger.Infof("Building %s...", g.base)
	args := []string{"-f"}
	if b.opts.NoConfirm {
		args = append(args, "--noconfirm")
	}
	if err := b.run.RunIn(ctx, srcDir, b.opts.Makepkg, args...); err != nil {
		return nil, errors.Wrapf(errors.ErrBuildFailed, "building %s: %v", g.base, err)
	}

	stdout, stderr, err := b.run.OutputIn(ctx, srcDir, b.opts.Makepkg, "--packagelist")
	if err != nil {
		return nil, errors.Wrapf(err, "listing artifacts for %s: %s", g.base, strings.TrimSpace(stderr))
	}
	listed := parsePackageList(stdout)
	if len(listed) == 0 {
		return nil, errors.Wrapf(errors.ErrNoArtifacts, "%s", g.base)
	}

	var wanted []string
	for _, artifact := range listed {
		cached := filepath.Join(b.opts.CacheDir, filepath.Base(artifact))
		if err := fsutil.Move(artifact, cached); err != nil {
			return nil, errors.Wrapf(err, "caching artifact for %s", g.base)
		}
		if groupWants(g, filepath.Base(artifact)) {
			wanted = append(wanted, cached)
		} else {
			logger.Debugf("cached unrequested split package artifact %s", filepath.Base(artifact))
		}
	}
	if len(wanted) == 0 {
		return nil, errors.Wrapf(errors.ErrNoArtifacts, "%s built nothing matching the requested packages", g.base)
	}
	return wanted, nil
}

// groupByBase folds a wave into one group per package base, preserving
// wave order.
func groupByBase(wave []model.Buildable) []baseGroup {
	index := make(map[model.PkgName]int)
	var groups []baseGroup
	for _, p := range wave {
		if i, ok := index[p.Base]; ok {
			groups[i].pkgs = append(groups[i].pkgs, p)
			continue
		}
		index[p.Base] = len(groups)
		groups = append(groups, baseGroup{base: p.Base, version: p.Version, url: p.SnapshotURL, pkgs: []model.Buildable{p}})
	}
	return groups
}

// parsePackageList reads makepkg --packagelist output, one absolute
// artifact path per line.
func parsePackageList(stdout string) []string {
	var paths []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// groupWants reports whether an artifact file belongs to one of the
// packages the group was asked to build.
func groupWants(g baseGroup, filename string) bool {
	name, ok := artifactPkgName(filename)
	if !ok {
		return false
	}
	for _, p := range g.pkgs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// artifactPkgName extracts the package name from an artifact filename.
// Artifacts are named name-version-release-arch.pkg.tar.<ext>; version
// and release never contain hyphens, so the name is everything before
// the last three hyphen separated fields.
func artifactPkgName(filename string) (model.PkgName, bool) {
	i := strings.Index(filename, ".pkg.tar")
	if i < 0 {
		return "", false
	}
	parts := strings.Split(filename[:i], "-")
	if len(parts) < 4 {
		return "", false
	}
	return model.PkgName(strings.Join(parts[:len(parts)-3], "-")), true
}
