// Package progress persists the step log of a project-creation run so that a
// crashed or interrupted run can be diagnosed afterwards.
//
// The state file is rewritten in full on every transition. Writes are
// serialized, so the file always reflects the most recent call. Persistence
// failures are logged and never returned; progress tracking is observability
// and must not fail the run it observes.
package progress

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/itechmeat/start-vibe-project/internal/clock"
	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
)

// Status is the lifecycle status of a run.
type Status string

// Run statuses.
const (
	StatusInProgress Status = "in-progress"
	StatusError      Status = "error"
	StatusCancelled  Status = "cancelled"
	StatusCompleted  Status = "completed"
)

// TimestampFormat is the layout of State.UpdatedAt.
const TimestampFormat = constants.TimestampFormat

// State is the persisted snapshot of a run.
type State struct {
	Status    Status   `json:"status"`
	Steps     []string `json:"steps"`
	LastStep  string   `json:"lastStep,omitempty"`
	UpdatedAt string   `json:"updatedAt"`
	Error     string   `json:"error,omitempty"`
}

// Recorder is what the pipeline needs from a progress tracker.
type Recorder interface {
	RecordStep(step string)
	MarkError(err error)
	MarkCancelled()
	MarkCompleted()
}

// Tracker persists State to a JSON file through the filesystem port.
type Tracker struct {
	fs     filesystem.FileSystem
	path   string
	clock  clock.Clock
	logger zerolog.Logger

	mu       sync.Mutex
	steps    []string
	lastStep string
}

// Compile-time interface check.
var _ Recorder = (*Tracker)(nil)

// NewTracker creates a Tracker writing to path. A nil clk uses the real clock.
func NewTracker(fs filesystem.FileSystem, path string, clk clock.Clock, logger zerolog.Logger) *Tracker {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Tracker{
		fs:     fs,
		path:   path,
		clock:  clk,
		logger: logger,
		steps:  make([]string, 0, 16),
	}
}

// Path returns the state file path.
func (t *Tracker) Path() string {
	return t.path
}

// RecordStep appends step to the log and persists an in-progress state.
// Recording the same step twice keeps both entries.
func (t *Tracker) RecordStep(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.steps = append(t.steps, step)
	t.lastStep = step
	t.persist(StatusInProgress, "")
}

// MarkError persists an error state carrying err's message.
func (t *Tracker) MarkError(err error) {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.persist(StatusError, msg)
}

// MarkCancelled persists a cancelled state.
func (t *Tracker) MarkCancelled() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.persist(StatusCancelled, "")
}

// MarkCompleted persists a completed state.
func (t *Tracker) MarkCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.persist(StatusCompleted, "")
}

func (t *Tracker) snapshot(status Status, errMsg string) State {
	return State{
		Status:    status,
		Steps:     slices.Clone(t.steps),
		LastStep:  t.lastStep,
		UpdatedAt: t.clock.Now().UTC().Format(TimestampFormat),
		Error:     errMsg,
	}
}

// persist must be called with t.mu held.
func (t *Tracker) persist(status Status, errMsg string) {
	if err := t.fs.Mkdir(filepath.Dir(t.path), true); err != nil {
		t.logger.Error().Err(err).Str("path", t.path).Msg("progress tracker failed to create directory")
		return
	}

	data, err := json.MarshalIndent(t.snapshot(status, errMsg), "", "  ")
	if err != nil {
		t.logger.Error().Err(err).Msg("progress tracker failed to encode state")
		return
	}

	if err := t.fs.WriteFile(t.path, string(data)); err != nil {
		t.logger.Error().Err(err).Str("path", t.path).Msg("progress tracker failed to write state")
	}
}

// Load reads a persisted state, typically to diagnose an earlier run.
func Load(fs filesystem.FileSystem, path string) (State, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal([]byte(content), &state); err != nil {
		return State{}, svperrors.FileSystem("Failed to parse progress file", path, err)
	}
	return state, nil
}

// UpdatedAtTime parses the state's timestamp.
func (s State) UpdatedAtTime() (time.Time, error) {
	return time.Parse(TimestampFormat, s.UpdatedAt)
}
