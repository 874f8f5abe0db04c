package progress_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechmeat/start-vibe-project/internal/clock"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
	"github.com/itechmeat/start-vibe-project/internal/progress"
)

const statePath = "/work/.start-vibe-project/demo.json"

var errBoom = errors.New("boom")

func newTracker(t *testing.T) (*progress.Tracker, *filesystem.Billy, *clock.Manual) {
	t.Helper()
	fs := filesystem.NewMemory("")
	clk := clock.NewManual(time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC))
	return progress.NewTracker(fs, statePath, clk, zerolog.Nop()), fs, clk
}

func TestTracker_RecordStep(t *testing.T) {
	t.Parallel()
	tr, fs, clk := newTracker(t)

	tr.RecordStep("create-project-dir")
	clk.Advance(time.Second)
	tr.RecordStep("create-project-structure")

	state, err := progress.Load(fs, statePath)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusInProgress, state.Status)
	assert.Equal(t, []string{"create-project-dir", "create-project-structure"}, state.Steps)
	assert.Equal(t, "create-project-structure", state.LastStep)
	assert.Equal(t, "2026-03-04T05:06:08.890Z", state.UpdatedAt)
	assert.Empty(t, state.Error)

	ts, err := state.UpdatedAtTime()
	require.NoError(t, err)
	assert.True(t, ts.Equal(clk.Now()))
}

func TestTracker_DuplicateStepsAreKept(t *testing.T) {
	t.Parallel()
	tr, fs, _ := newTracker(t)

	tr.RecordStep("install-skills")
	tr.RecordStep("install-skills")

	state, err := progress.Load(fs, statePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"install-skills", "install-skills"}, state.Steps)
}

func TestTracker_MarkError(t *testing.T) {
	t.Parallel()
	tr, fs, _ := newTracker(t)

	tr.RecordStep("create-project-dir")
	tr.MarkError(errBoom)

	state, err := progress.Load(fs, statePath)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusError, state.Status)
	assert.Equal(t, "boom", state.Error)
	assert.Equal(t, "create-project-dir", state.LastStep)
	assert.Equal(t, []string{"create-project-dir"}, state.Steps)
}

func TestTracker_MarkErrorNil(t *testing.T) {
	t.Parallel()
	tr, fs, _ := newTracker(t)

	tr.MarkError(nil)

	state, err := progress.Load(fs, statePath)
	require.NoError(t, err)
	assert.Equal(t, "Unknown error", state.Error)
}

func TestTracker_TerminalStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mark func(*progress.Tracker)
		want progress.Status
	}{
		{"cancelled", (*progress.Tracker).MarkCancelled, progress.StatusCancelled},
		{"completed", (*progress.Tracker).MarkCompleted, progress.StatusCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tr, fs, _ := newTracker(t)
			tc.mark(tr)

			state, err := progress.Load(fs, statePath)
			require.NoError(t, err)
			assert.Equal(t, tc.want, state.Status)
			assert.NotNil(t, state.Steps)
			assert.Empty(t, state.Steps)
			assert.Empty(t, state.LastStep)
		})
	}
}

func TestTracker_EmptyStepsSerializeAsArray(t *testing.T) {
	t.Parallel()
	tr, fs, _ := newTracker(t)

	tr.MarkCompleted()

	raw, err := fs.ReadFile(statePath)
	require.NoError(t, err)
	assert.Contains(t, raw, `"steps": []`)
	assert.NotContains(t, raw, "lastStep")
	assert.NotContains(t, raw, `"error"`)
}

func TestTracker_ConcurrentWritesKeepLastState(t *testing.T) {
	t.Parallel()
	tr, fs, _ := newTracker(t)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.RecordStep("write-project-files")
		}()
	}
	wg.Wait()
	tr.MarkCompleted()

	state, err := progress.Load(fs, statePath)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, state.Status)
	assert.Len(t, state.Steps, 20)
}

func TestTracker_WriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	fs := filesystem.NewMemory("/elsewhere")
	tr := progress.NewTracker(fs, statePath, nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		tr.RecordStep("create-project-dir")
		tr.MarkError(errBoom)
	})
	assert.False(t, fs.Exists(statePath))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	fs := filesystem.NewMemory("")

	_, err := progress.Load(fs, "/missing.json")
	require.Error(t, err)

	require.NoError(t, fs.WriteFile("/bad.json", "{not json"))
	_, err = progress.Load(fs, "/bad.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to parse progress file")
}

func TestTracker_Path(t *testing.T) {
	t.Parallel()
	tr, _, _ := newTracker(t)
	assert.Equal(t, statePath, tr.Path())
}
