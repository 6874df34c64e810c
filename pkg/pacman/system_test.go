package pacman

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// fakeRunner queues canned Output results and records every invocation.
type fakeRunner struct {
	results []fakeResult

	outputCalls [][]string
	runCalls    [][]string
	sudoCalls   [][]string
	sudoErr     error
}

type fakeResult struct {
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, string, error) {
	f.outputCalls = append(f.outputCalls, append([]string{name}, args...))
	if len(f.results) == 0 {
		return "", "", nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.stdout, r.stderr, r.err
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.runCalls = append(f.runCalls, append([]string{name}, args...))
	return nil
}

func (f *fakeRunner) RunSudo(_ context.Context, name string, args ...string) error {
	f.sudoCalls = append(f.sudoCalls, append([]string{name}, args...))
	return f.sudoErr
}

const queryOutput = `bash 5.2.026-2
coreutils 9.4-3
ripgrep 14.1.0-1
`

const syncInfoOutput = `Repository      : extra
Name            : ripgrep
Version         : 14.1.0-1
Description     : A search tool that combines the usability of ag with the raw speed of grep
Architecture    : x86_64
URL             : https://github.com/BurntSushi/ripgrep
Licenses        : MIT  UNLICENSE
Depends On      : gcc-libs  pcre2
Download Size   : 1.52 MiB
Installed Size  : 4.89 MiB

Repository      : core
Name            : zlib
Version         : 1:1.3.1-2
Description     : Compression library implementing the deflate compression method
Architecture    : x86_64
Depends On      : glibc

`

func TestInstalledParsesQuery(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{stdout: queryOutput}}}
	sys := New(run, "", false)

	got, err := sys.Installed(context.Background())
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.Equal(t, "14.1.0-1", got["ripgrep"])
	assert.Equal(t, "5.2.026-2", got["bash"])

	require.Len(t, run.outputCalls, 1)
	assert.Equal(t, []string{"pacman", "-Q"}, run.outputCalls[0])
}

func TestInstalledFailure(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{stderr: "error: failed to open db", err: fmt.Errorf("exit status 1")}}}
	sys := New(run, "", false)

	_, err := sys.Installed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pacman -Q failed")
	assert.Contains(t, err.Error(), "failed to open db")
}

func TestForeignUsesQm(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{stdout: "paru 2.0.4-1\n"}}}
	sys := New(run, "", false)

	got, err := sys.Foreign(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[model.PkgName]string{"paru": "2.0.4-1"}, got)

	require.Len(t, run.outputCalls, 1)
	assert.Equal(t, []string{"pacman", "-Qm"}, run.outputCalls[0])
}

func TestSyncInfoParsesStanzas(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{stdout: syncInfoOutput}}}
	sys := New(run, "", false)

	found, notFound, err := sys.SyncInfo(context.Background(), []model.PkgName{"ripgrep", "zlib"})
	require.NoError(t, err)
	assert.Empty(t, notFound)

	require.Len(t, found, 2)
	assert.Equal(t, model.PkgName("ripgrep"), found[0].Name)
	assert.Equal(t, "14.1.0-1", found[0].Version)
	assert.Equal(t, "extra", found[0].Repo)
	assert.Contains(t, found[0].Description, "search tool")
	assert.Equal(t, "1:1.3.1-2", found[1].Version)
	assert.Equal(t, "core", found[1].Repo)

	// One batched invocation carrying every name.
	require.Len(t, run.outputCalls, 1)
	assert.Equal(t, []string{"pacman", "-Si", "ripgrep", "zlib"}, run.outputCalls[0])
}

func TestSyncInfoPartialNotFound(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{
		stdout: syncInfoOutput,
		stderr: "error: package 'no-such-thing' was not found\n",
		err:    fmt.Errorf("exit status 1"),
	}}}
	sys := New(run, "", false)

	found, notFound, err := sys.SyncInfo(context.Background(), []model.PkgName{"ripgrep", "no-such-thing", "zlib"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []model.PkgName{"no-such-thing"}, notFound)
}

func TestSyncInfoHardFailure(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{
		stderr: "error: failed to synchronize all databases (unable to lock database)",
		err:    fmt.Errorf("exit status 1"),
	}}}
	sys := New(run, "", false)

	_, _, err := sys.SyncInfo(context.Background(), []model.PkgName{"ripgrep"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pacman -Si failed")
}

func TestSyncInfoEmptyNames(t *testing.T) {
	sys := New(&fakeRunner{}, "", false)

	_, _, err := sys.SyncInfo(context.Background(), nil)
	require.ErrorIs(t, err, errors.ErrNoPackagesRequested)
}

func TestMissingDepsAllSatisfied(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{}}}
	sys := New(run, "", false)

	missing, err := sys.MissingDeps(context.Background(), []model.Dep{
		model.ParseDep("glibc>=2.28"),
		model.ParseDep("zlib"),
	})
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.Len(t, run.outputCalls, 1)
	assert.Equal(t, []string{"pacman", "-T", "glibc>=2.28", "zlib"}, run.outputCalls[0])
}

func TestMissingDepsEchoesUnsatisfied(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{
		stdout: "rustup>=1.27\nno-such-dep\n",
		err:    fmt.Errorf("exit status 127"),
	}}}
	sys := New(run, "", false)

	missing, err := sys.MissingDeps(context.Background(), []model.Dep{
		model.ParseDep("glibc"),
		model.ParseDep("rustup>=1.27"),
		model.ParseDep("no-such-dep"),
	})
	require.NoError(t, err)

	require.Len(t, missing, 2)
	assert.Equal(t, model.Dep{Name: "rustup", Constraint: ">=1.27"}, missing[0])
	assert.Equal(t, model.Dep{Name: "no-such-dep"}, missing[1])
}

func TestMissingDepsHardFailure(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{
		stderr: "error: config file could not be read",
		err:    fmt.Errorf("exit status 1"),
	}}}
	sys := New(run, "", false)

	_, err := sys.MissingDeps(context.Background(), []model.Dep{model.ParseDep("glibc")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pacman -T failed")
}

func TestMissingDepsEmpty(t *testing.T) {
	sys := New(&fakeRunner{}, "", false)

	_, err := sys.MissingDeps(context.Background(), nil)
	require.ErrorIs(t, err, errors.ErrNoPackagesRequested)
}

func TestInstallBatchesOneSudoCall(t *testing.T) {
	run := &fakeRunner{}
	sys := New(run, "", true)

	err := sys.Install(context.Background(), []model.PkgName{"ripgrep", "zlib"}, true)
	require.NoError(t, err)

	require.Len(t, run.sudoCalls, 1)
	assert.Equal(t, []string{"pacman", "-S", "--needed", "--noconfirm", "ripgrep", "zlib"}, run.sudoCalls[0])
}

func TestInstallWithoutNeeded(t *testing.T) {
	run := &fakeRunner{}
	sys := New(run, "", false)

	require.NoError(t, sys.Install(context.Background(), []model.PkgName{"ripgrep"}, false))

	require.Len(t, run.sudoCalls, 1)
	assert.Equal(t, []string{"pacman", "-S", "ripgrep"}, run.sudoCalls[0])
}

func TestInstallFiles(t *testing.T) {
	run := &fakeRunner{}
	sys := New(run, "", true)

	paths := []string{"/tmp/a-1-1-x86_64.pkg.tar.zst", "/tmp/b-2-1-x86_64.pkg.tar.zst"}
	require.NoError(t, sys.InstallFiles(context.Background(), paths))

	require.Len(t, run.sudoCalls, 1)
	assert.Equal(t, []string{"pacman", "-U", "--noconfirm", paths[0], paths[1]}, run.sudoCalls[0])
}

func TestRemove(t *testing.T) {
	run := &fakeRunner{}
	sys := New(run, "", false)

	require.NoError(t, sys.Remove(context.Background(), []model.PkgName{"paru"}))

	require.Len(t, run.sudoCalls, 1)
	assert.Equal(t, []string{"pacman", "-R", "paru"}, run.sudoCalls[0])
}

func TestMutationsRejectEmptyBatches(t *testing.T) {
	run := &fakeRunner{}
	sys := New(run, "", false)
	ctx := context.Background()

	require.ErrorIs(t, sys.Install(ctx, nil, true), errors.ErrNoPackagesRequested)
	require.ErrorIs(t, sys.InstallFiles(ctx, nil), errors.ErrNoPackagesRequested)
	require.ErrorIs(t, sys.Remove(ctx, nil), errors.ErrNoPackagesRequested)
	assert.Empty(t, run.sudoCalls)
}

func TestCustomBinary(t *testing.T) {
	run := &fakeRunner{results: []fakeResult{{stdout: queryOutput}}}
	sys := New(run, "/usr/local/bin/pacman", false)

	_, err := sys.Installed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/pacman", run.outputCalls[0][0])
}
