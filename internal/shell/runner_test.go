package shell_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/shell"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func newRunner() *shell.Runner {
	return shell.NewRunner(zerolog.Nop(), 0)
}

func TestRun_CapturesOutput(t *testing.T) {
	t.Parallel()
	requireSh(t)

	out, err := newRunner().Run(context.Background(), "sh",
		[]string{"-c", "echo out; echo err >&2"}, t.TempDir(), shell.Options{})
	require.NoError(t, err)
	assert.Equal(t, "out\n", out.Stdout)
	assert.Equal(t, "err\n", out.Stderr)
}

func TestRun_ArgumentsAreNotShellInterpreted(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	out, err := newRunner().Run(context.Background(), "echo",
		[]string{"$HOME", "; rm -rf /", "`id`"}, t.TempDir(), shell.Options{})
	require.NoError(t, err)
	assert.Equal(t, "$HOME ; rm -rf / `id`\n", out.Stdout)
}

func TestRun_RunsInCwd(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir := t.TempDir()
	out, err := newRunner().Run(context.Background(), "sh", []string{"-c", "pwd -P"}, dir, shell.Options{})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out.Stdout)
}

func TestRun_NonZeroExit(t *testing.T) {
	t.Parallel()
	requireSh(t)

	_, err := newRunner().Run(context.Background(), "sh",
		[]string{"-c", "echo partial; echo broken >&2; exit 3"}, t.TempDir(), shell.Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, svperrors.ErrCommandExecution)
	assert.Equal(t, "Command failed with exit code 3", err.Error())

	appErr := svperrors.Normalize(err)
	code, ok := appErr.ExitCode()
	require.True(t, ok)
	assert.Equal(t, 3, code)
	assert.Equal(t, "broken\n", appErr.Stderr)
	assert.Equal(t, "partial\n", appErr.Context["stdout"])
	assert.Equal(t, "sh -c echo partial; echo broken >&2; exit 3", appErr.Command)
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	requireSh(t)

	start := time.Now()
	_, err := newRunner().Run(context.Background(), "sh",
		[]string{"-c", "echo starting >&2; sleep 10"}, t.TempDir(), shell.Options{Timeout: 100 * time.Millisecond})
	elapsed := time.Since(start)

	require.Error(t, err)
	require.ErrorIs(t, err, svperrors.ErrCommandExecution)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "Command timed out after 100ms", err.Error())
	assert.Less(t, elapsed, 5*time.Second)

	appErr := svperrors.Normalize(err)
	code, ok := appErr.ExitCode()
	require.True(t, ok)
	assert.Equal(t, -1, code)
}

func TestRun_TimeoutKillsChildren(t *testing.T) {
	t.Parallel()
	requireSh(t)

	start := time.Now()
	_, err := newRunner().Run(context.Background(), "sh",
		[]string{"-c", "sleep 10 & sleep 10; wait"}, t.TempDir(), shell.Options{Timeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()
	requireSh(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := newRunner().Run(ctx, "sh", []string{"-c", "sleep 10"}, t.TempDir(), shell.Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, svperrors.ErrCommandExecution)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Command cancelled", err.Error())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_InvalidCwd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cwd  string
	}{
		{name: "relative", cwd: "some/relative/dir"},
		{name: "dot", cwd: "."},
		{name: "missing", cwd: filepath.Join(t.TempDir(), "missing")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// The binary does not exist: reaching the spawn step would produce
			// a different error message.
			_, err := newRunner().Run(context.Background(), "definitely-not-a-real-binary-svp",
				nil, tc.cwd, shell.Options{})
			require.ErrorIs(t, err, svperrors.ErrCommandExecution)
			assert.Equal(t, "Invalid working directory", err.Error())
			assert.Equal(t, tc.cwd, svperrors.Normalize(err).Context["cwd"])
		})
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	t.Parallel()

	_, err := newRunner().Run(context.Background(), "definitely-not-a-real-binary-svp",
		[]string{"x"}, t.TempDir(), shell.Options{})
	require.ErrorIs(t, err, svperrors.ErrCommandExecution)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-svp")

	_, ok := svperrors.Normalize(err).ExitCode()
	assert.False(t, ok)
}

func TestFormatCommand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "git", shell.FormatCommand("git", nil))
	assert.Equal(t, "npx skills add a/b -a claude-code -y",
		shell.FormatCommand("npx", []string{"skills", "add", "a/b", "-a", "claude-code", "-y"}))
}
