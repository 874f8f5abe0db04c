// Package flock guards a project-creation run with an exclusive,
// non-blocking file lock so two runs cannot write the same target or the
// same progress file.
//
// Usage:
//
//	lock, err := flock.Acquire(progressDir, "my-app")
//	if err != nil {
//	    // LOCK_HELD: another run owns this project name
//	}
//	defer lock.Release()
package flock
