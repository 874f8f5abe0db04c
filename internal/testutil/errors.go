// Package testutil provides shared fakes and mock errors for start-vibe-project
// tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockCommandFailed simulates a command that exited non-zero.
	ErrMockCommandFailed = errors.New("command failed")

	// ErrMockNetwork simulates a network failure during an install.
	ErrMockNetwork = errors.New("network error")

	// ErrMockNotFound simulates a missing executable or resource.
	ErrMockNotFound = errors.New("not found")
)
