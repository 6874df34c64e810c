package executor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputCapturesStreamsSeparately(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, stderr, err := e.Output(ctx, "sh", "-c", "echo out; echo oops >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout)
	assert.Equal(t, "oops\n", stderr)
}

func TestOutputNonZeroExitKeepsCapturedOutput(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, _, err := e.Output(ctx, "sh", "-c", "echo partial; exit 3")
	require.Error(t, err)
	assert.Equal(t, "partial\n", stdout)
}

func TestOutputForcesCLocale(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LANG", "de_DE.UTF-8")

	stdout, _, err := e.Output(ctx, "sh", "-c", "echo $LC_ALL $LANG")
	require.NoError(t, err)
	assert.Equal(t, "C C\n", stdout)
}

func TestRunFailingCommand(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, e.Run(ctx, "true"))
	assert.Error(t, e.Run(ctx, "false"))
}

func TestDryRunSkipsMutatingCommands(t *testing.T) {
	e := New(true)
	ctx := context.Background()

	assert.NoError(t, e.Run(ctx, "false"))
	assert.NoError(t, e.RunSudo(ctx, "false"))
}

func TestDryRunDoesNotSkipQueries(t *testing.T) {
	e := New(true)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, _, err := e.Output(ctx, "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
}

func TestOutputInRunsInDirectory(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dir := t.TempDir()

	stdout, _, err := e.OutputIn(ctx, dir, "pwd")
	require.NoError(t, err)

	// TempDir may sit behind a symlink on some systems, so compare the
	// resolved paths.
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(stdout))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunInRunsInDirectory(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dir := t.TempDir()

	require.NoError(t, e.RunIn(ctx, dir, "sh", "-c", "touch marker"))
	assert.FileExists(t, filepath.Join(dir, "marker"))
}

func TestDryRunSkipsRunIn(t *testing.T) {
	e := New(true)
	dir := t.TempDir()

	require.NoError(t, e.RunIn(context.Background(), dir, "sh", "-c", "touch marker"))
	assert.NoFileExists(t, filepath.Join(dir, "marker"))
}

func TestSetDryRun(t *testing.T) {
	e := New(false)
	assert.False(t, e.DryRun())
	e.SetDryRun(true)
	assert.True(t, e.DryRun())
}

func TestOutputCancelledContext(t *testing.T) {
	e := New(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.Output(ctx, "sleep", "10")
	assert.Error(t, err)
}
