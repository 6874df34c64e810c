// Package executor runs external commands with optional sudo escalation.
package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/aurumpkg/aurum/internal/logger"
	"github.com/aurumpkg/aurum/pkg/errors"
)

// Runner abstracts subprocess execution so command construction and output
// parsing can be tested without touching the live system. Run and RunSudo
// stream to the terminal and are skipped in dry-run mode; Output captures
// and always executes, since callers use it for read-only queries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	RunSudo(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// Executor is the live Runner implementation.
type Executor struct {
	dryRun bool
}

// New creates an Executor. With dryRun set, mutating commands are logged
// instead of executed.
func New(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// DryRun reports whether dry-run mode is active.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Run executes a command, streaming its output to the terminal.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	return e.RunIn(ctx, "", name, args...)
}

// RunIn is Run with an explicit working directory. An empty dir inherits
// the caller's.
func (e *Executor) RunIn(ctx context.Context, dir, name string, args ...string) error {
	if e.dryRun {
		logger.Infof("[dry-run] would execute: %s %s", name, strings.Join(args, " "))
		return nil
	}

	logger.Debugf("executing: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", name)
	}
	return nil
}

// RunSudo executes a command with root privileges, prefixing sudo unless
// the process already runs as root.
func (e *Executor) RunSudo(ctx context.Context, name string, args ...string) error {
	if e.dryRun {
		logger.Infof("[dry-run] would execute (root): %s %s", name, strings.Join(args, " "))
		return nil
	}

	var cmd *exec.Cmd
	switch {
	case IsRoot():
		cmd = exec.CommandContext(ctx, name, args...)
	case hasSudo():
		cmd = exec.CommandContext(ctx, "sudo", append([]string{name}, args...)...)
	default:
		return errors.Wrapf(errors.ErrSudoRequired, "cannot run %s", name)
	}

	logger.Debugf("executing (root): %s %s", name, strings.Join(args, " "))

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", name)
	}
	return nil
}

// Output executes a command and captures stdout and stderr separately.
// The error is the raw exec error so callers can distinguish a non-zero
// exit (with parseable output) from a failure to run at all.
func (e *Executor) Output(ctx context.Context, name string, args ...string) (string, string, error) {
	return e.OutputIn(ctx, "", name, args...)
}

// OutputIn is Output with an explicit working directory. An empty dir
// inherits the caller's.
func (e *Executor) OutputIn(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	logger.Debugf("executing: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	// Callers parse the captured text, and some match on message wording,
	// so pin the locale to C regardless of the host environment.
	cmd.Env = append(os.Environ(), "LC_ALL=C", "LANG=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// IsRoot reports whether the current process runs with effective UID 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}

func hasSudo() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}
