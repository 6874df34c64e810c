//go:build integration

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestBinary(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	binaryPath := filepath.Join(tmpDir, "aurum")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cli/aurum")
	cmd.Dir = filepath.Clean(filepath.Join("..", ".."))

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build test binary: %s", string(output))

	return binaryPath
}

// testEnv is a sandboxed aurum setup: a fake pacman and sudo on PATH, a
// config file pointing every directory into a temp root, and a control
// directory the fake pacman reads its answers from.
type testEnv struct {
	binary   string
	cfgPath  string
	stateDir string
	cacheDir string
	ctrlDir  string
	binDir   string
	logPath  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("integration tests drive shell stubs, linux only")
	}

	root := t.TempDir()
	env := &testEnv{
		binary:   buildTestBinary(t),
		cfgPath:  filepath.Join(root, "config.yaml"),
		stateDir: filepath.Join(root, "states"),
		cacheDir: filepath.Join(root, "pkgcache"),
		ctrlDir:  filepath.Join(root, "ctrl"),
		binDir:   filepath.Join(root, "bin"),
		logPath:  filepath.Join(root, "ctrl", "invocations.log"),
	}
	require.NoError(t, os.MkdirAll(env.cacheDir, 0o755))
	require.NoError(t, os.MkdirAll(env.ctrlDir, 0o755))
	require.NoError(t, os.MkdirAll(env.binDir, 0o755))

	cfg := fmt.Sprintf(`settings:
  state_dir: %s
  build_dir: %s
  snapshot_dir: %s
  cache_dirs:
    - %s
  log_level: info
`, env.stateDir, filepath.Join(root, "builds"), filepath.Join(root, "snapshots"), env.cacheDir)
	require.NoError(t, os.WriteFile(env.cfgPath, []byte(cfg), 0o644))

	// The fake pacman answers -Q/-Qm/-Si from control files, reports every
	// -T dep as missing, and accepts -S/-U/-R silently. Every invocation is
	// appended to the log for assertions.
	pacmanScript := `#!/bin/sh
echo "pacman $@" >> "$AURUM_TEST_LOG"
case "$1" in
-Q) cat "$AURUM_TEST_CTRL/q.txt" 2>/dev/null ;;
-Qm) cat "$AURUM_TEST_CTRL/qm.txt" 2>/dev/null ;;
-Si) cat "$AURUM_TEST_CTRL/si.txt" 2>/dev/null ;;
-T) shift; for dep in "$@"; do echo "$dep"; done; exit 1 ;;
esac
exit 0
`
	env.writeScript(t, "pacman", pacmanScript)
	env.writeScript(t, "sudo", "#!/bin/sh\nexec \"$@\"\n")

	return env
}

func (e *testEnv) writeScript(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.binDir, name), []byte(body), 0o755))
}

func (e *testEnv) setControl(t *testing.T, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.ctrlDir, file), []byte(content), 0o644))
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(e.binary, append(args, "--config", e.cfgPath)...)
	cmd.Env = append(os.Environ(),
		"PATH="+e.binDir+":"+os.Getenv("PATH"),
		"AURUM_TEST_CTRL="+e.ctrlDir,
		"AURUM_TEST_LOG="+e.logPath,
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (e *testEnv) invocations(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.logPath)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "aurum version")
}

func TestStateSaveAndList(t *testing.T) {
	env := newTestEnv(t)
	env.setControl(t, "q.txt", "foo 1.0-1\nbar 2.0-1\n")

	out, err := env.run(t, "state", "save")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved state")
	assert.Contains(t, out, "2 packages")

	entries, err := os.ReadDir(env.stateDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

	out, err = env.run(t, "state", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, strings.TrimSuffix(entries[0].Name(), ".json"))
	assert.Contains(t, out, "2 packages")
}

func TestStateRestoreDryRun(t *testing.T) {
	env := newTestEnv(t)

	env.setControl(t, "q.txt", "foo 1.0-1\n")
	out, err := env.run(t, "state", "save")
	require.NoError(t, err, out)

	// A package appeared since the snapshot; restoring must plan its removal.
	env.setControl(t, "q.txt", "foo 1.0-1\nbar 2.0-1\n")
	out, err = env.run(t, "state", "restore", "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "remove bar")
	assert.NotContains(t, out, "reinstall")

	// Dry run must not touch the system.
	assert.NotContains(t, env.invocations(t), "-R")
}

func TestStateRestoreAppliesDiff(t *testing.T) {
	env := newTestEnv(t)

	env.setControl(t, "q.txt", "foo 1.0-1\nbaz 1.0-1\n")
	out, err := env.run(t, "state", "save")
	require.NoError(t, err, out)

	// baz was uninstalled and bar appeared; its artifact is cached so the
	// restore can reinstall it and remove bar.
	artifact := filepath.Join(env.cacheDir, "baz-1.0-1-x86_64.pkg.tar.zst")
	require.NoError(t, os.WriteFile(artifact, []byte("pkg"), 0o644))
	env.setControl(t, "q.txt", "foo 1.0-1\nbar 2.0-1\n")

	out, err = env.run(t, "state", "restore")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 reinstalled")
	assert.Contains(t, out, "1 removed")

	log := env.invocations(t)
	assert.Contains(t, log, "-U "+artifact)
	assert.Contains(t, log, "-R bar")
}

func TestStateRestoreReportsMissingArtifacts(t *testing.T) {
	env := newTestEnv(t)

	env.setControl(t, "q.txt", "gone 3.0-1\nkept 1.0-1\n")
	out, err := env.run(t, "state", "save")
	require.NoError(t, err, out)

	// gone was uninstalled and nothing is cached; new extra must still be
	// removed even though gone cannot be restored.
	env.setControl(t, "q.txt", "kept 1.0-1\nextra 1.0-1\n")
	out, err = env.run(t, "state", "restore")
	require.NoError(t, err, out)
	assert.Contains(t, out, "no cached artifact for: gone")

	log := env.invocations(t)
	assert.NotContains(t, log, "-U")
	assert.Contains(t, log, "-R extra")
}

func TestStateClean(t *testing.T) {
	env := newTestEnv(t)
	env.setControl(t, "q.txt", "foo 1.0-1\n")

	out, err := env.run(t, "state", "save")
	require.NoError(t, err, out)

	out, err = env.run(t, "state", "clean", "--keep", "0")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Removed 1 snapshots.")

	entries, err := os.ReadDir(env.stateDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInstallDryRunResolvesViaPacman(t *testing.T) {
	env := newTestEnv(t)
	env.setControl(t, "si.txt", `Name            : foo
Version         : 1.2.3-1
Repository      : extra
Description     : Test package
`)

	out, err := env.run(t, "install", "--dry-run", "foo")
	require.NoError(t, err, out)
	assert.Contains(t, out, "foo")
	assert.Contains(t, out, "1.2.3-1")
	assert.Contains(t, out, "dry-run")

	// Planning only: no transaction may be issued.
	log := env.invocations(t)
	assert.Contains(t, log, "-Si foo")
	assert.NotContains(t, log, "-S ")
}

func TestCacheInfo(t *testing.T) {
	env := newTestEnv(t)
	artifact := filepath.Join(env.cacheDir, "foo-1.0-1-x86_64.pkg.tar.zst")
	require.NoError(t, os.WriteFile(artifact, []byte("0123456789"), 0o644))

	out, err := env.run(t, "cache", "info")
	require.NoError(t, err, out)
	assert.Contains(t, out, env.cacheDir)
	assert.Contains(t, out, "Artifacts: 1")
	assert.Contains(t, out, "10 B")

	out, err = env.run(t, "cache", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "foo-1.0-1-x86_64.pkg.tar.zst")
}
