// Package shell runs external processes for the project pipeline.
//
// Commands are executed directly from an argument vector; no shell
// interpreter is involved. Every failure is returned as a CommandExecution
// error carrying the command line, and where known the exit code and the
// captured stderr.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// Options controls a single command run.
type Options struct {
	// Timeout bounds the run. Zero uses the runner's default.
	Timeout time.Duration
}

// Output is the captured output of a successful run.
type Output struct {
	Stdout string
	Stderr string
}

// Shell is the process-spawning port.
type Shell interface {
	Run(ctx context.Context, command string, args []string, cwd string, opts Options) (Output, error)
}

// Runner implements Shell with os/exec. Each command runs in its own process
// group so that a timeout or cancellation also stops the children it spawned
// (npx and npm fork helpers).
type Runner struct {
	logger         zerolog.Logger
	defaultTimeout time.Duration
}

// Compile-time interface check.
var _ Shell = (*Runner)(nil)

// NewRunner creates a Runner. A non-positive defaultTimeout uses
// constants.DefaultCommandTimeout.
func NewRunner(logger zerolog.Logger, defaultTimeout time.Duration) *Runner {
	if defaultTimeout <= 0 {
		defaultTimeout = constants.DefaultCommandTimeout
	}
	return &Runner{logger: logger, defaultTimeout: defaultTimeout}
}

// Run executes command with args in cwd and waits for it to finish.
//
// cwd must be an absolute path to an existing directory; anything else is
// rejected before a process is spawned. A timeout or a cancelled ctx
// terminates the whole process group.
func (r *Runner) Run(ctx context.Context, command string, args []string, cwd string, opts Options) (Output, error) {
	cmdline := formatCommand(command, args)

	if err := validateCwd(cwd); err != nil {
		return Output{}, svperrors.CommandExecution("Invalid working directory", cmdline).
			WithContext("cwd", cwd).
			WithCause(err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command, args...) //#nosec G204 -- argument vector, no shell
	cmd.Dir = cwd
	cmd.WaitDelay = constants.ProcessWaitDelay
	configureProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Str("command", cmdline).
		Str("cwd", cwd).
		Dur("timeout", timeout).
		Msg("running command")

	start := time.Now()
	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	r.logger.Debug().
		Str("command", cmdline).
		Dur("duration_ms", time.Since(start)).
		Bool("success", err == nil).
		Msg("command finished")

	if err == nil {
		return out, nil
	}

	switch {
	case ctx.Err() != nil:
		return Output{}, svperrors.CommandExecution("Command cancelled", cmdline).
			WithExitCode(-1).
			WithStderr(out.Stderr).
			WithCause(ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return Output{}, svperrors.CommandExecution(
			fmt.Sprintf("Command timed out after %dms", timeout.Milliseconds()), cmdline).
			WithExitCode(-1).
			WithStderr(out.Stderr).
			WithCause(runCtx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Output{}, svperrors.CommandExecution(
			fmt.Sprintf("Command failed with exit code %d", exitErr.ExitCode()), cmdline).
			WithExitCode(exitErr.ExitCode()).
			WithStderr(out.Stderr).
			WithContext("stdout", out.Stdout)
	}

	return Output{}, svperrors.CommandExecution(err.Error(), cmdline).
		WithStderr(out.Stderr).
		WithCause(err)
}

// FormatCommand renders a command line for logs and manual-recovery hints.
func FormatCommand(command string, args []string) string {
	return formatCommand(command, args)
}

func formatCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

func validateCwd(cwd string) error {
	if !filepath.IsAbs(cwd) {
		return errRelativeCwd
	}
	info, err := os.Stat(cwd)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errCwdNotDir
	}
	return nil
}

var (
	errRelativeCwd = errors.New("working directory must be an absolute path")
	errCwdNotDir   = errors.New("working directory is not a directory")
)
