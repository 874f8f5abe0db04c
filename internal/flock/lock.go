package flock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// LockSuffix is appended to the project name to form the lock file name.
const LockSuffix = ".lock"

// Lock is a held exclusive lock. The zero value is not usable.
type Lock struct {
	file *os.File
	path string
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// LockPath returns <dir>/<name>.lock.
func LockPath(dir, name string) string {
	return filepath.Join(dir, name+LockSuffix)
}

// Acquire creates dir if needed and takes the lock for name without blocking.
// A lock held by another process yields an error of kind ErrLockHeld.
func Acquire(dir, name string) (*Lock, error) {
	if err := os.MkdirAll(dir, constants.DirPerm); err != nil {
		return nil, svperrors.FileSystem("Failed to create lock directory", dir, err)
	}

	path := LockPath(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, constants.FilePerm) //#nosec G304 -- path built from the progress dir and a validated project name
	if err != nil {
		return nil, svperrors.FileSystem("Failed to open lock file", path, err)
	}

	if err := tryLock(f); err != nil {
		_ = f.Close()
		return nil, svperrors.NewError(svperrors.ErrLockHeld,
			fmt.Sprintf("Another start-vibe-project run is already creating %q", name)).
			WithCause(err).
			WithContext("path", path)
	}

	// Best effort: the pid helps when diagnosing a stale lock by hand.
	if err := f.Truncate(0); err == nil {
		_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	}

	return &Lock{file: f, path: path}, nil
}

// Release unlocks, closes and removes the lock file. Safe on a nil Lock and
// safe to call twice.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	// Remove while still holding the lock so a waiting run never locks an
	// unlinked inode.
	removeErr := os.Remove(l.path)
	if os.IsNotExist(removeErr) {
		removeErr = nil
	}
	unlockErr := unlock(f)
	closeErr := f.Close()

	for _, err := range []error{removeErr, unlockErr, closeErr} {
		if err != nil {
			return svperrors.FileSystem("Failed to release lock", l.path, err)
		}
	}
	return nil
}
