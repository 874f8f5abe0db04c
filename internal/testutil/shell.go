package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/itechmeat/start-vibe-project/internal/shell"
)

// Call is one command seen by a Shell.
type Call struct {
	Command string
	Args    []string
	Cwd     string
	Options shell.Options
}

// String returns the command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
}

// Shell is a recording shell.Shell. Commands whose line starts with a key of
// Failures fail with the mapped error. Safe for concurrent use.
type Shell struct {
	Failures map[string]error

	mu    sync.Mutex
	calls []Call
}

var _ shell.Shell = (*Shell)(nil)

// Run records the call and returns the configured result.
func (s *Shell) Run(_ context.Context, command string, args []string, cwd string, opts shell.Options) (shell.Output, error) {
	call := Call{Command: command, Args: args, Cwd: cwd, Options: opts}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)

	line := call.String()
	for prefix, err := range s.Failures {
		if strings.HasPrefix(line, prefix) {
			return shell.Output{Stderr: err.Error()}, err
		}
	}
	return shell.Output{}, nil
}

// Calls returns a copy of the recorded calls.
func (s *Shell) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Ran reports whether a recorded command line starts with prefix.
func (s *Shell) Ran(prefix string) bool {
	for _, c := range s.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}
