//go:build unix

package flock_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/flock"
)

func TestAcquire_HeldByOtherDescriptor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := flock.LockPath(dir, "demo")

	lock, err := flock.Acquire(dir, "demo")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lock.Release() })

	data, err := os.ReadFile(path) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", os.Getpid()), string(data))

	_, err = flock.Acquire(dir, "demo")
	require.Error(t, err)

	var appErr *svperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, path, appErr.Context["path"])
	assert.Contains(t, appErr.Message, `"demo"`)
}

func TestAcquire_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "progress")
	lock, err := flock.Acquire(dir, "demo")
	require.NoError(t, err)
	assert.DirExists(t, dir)
	require.NoError(t, lock.Release())
}

func TestAcquire(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".start-vibe-project")

	lock, err := flock.Acquire(dir, "demo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "demo.lock"), lock.Path())
	assert.FileExists(t, lock.Path())

	_, err = flock.Acquire(dir, "demo")
	require.ErrorIs(t, err, svperrors.ErrLockHeld)
	assert.Equal(t, svperrors.CodeLockHeld, svperrors.CodeOf(err))

	other, err := flock.Acquire(dir, "other")
	require.NoError(t, err)
	require.NoError(t, other.Release())

	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release())
	assert.NoFileExists(t, filepath.Join(dir, "demo.lock"))

	again, err := flock.Acquire(dir, "demo")
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestRelease_NilLock(t *testing.T) {
	t.Parallel()

	var lock *flock.Lock
	assert.NoError(t, lock.Release())
}
