// Package errors provides centralized error handling for start-vibe-project.
//
// Every failure that crosses a package boundary is classified by one of the
// sentinel kinds below, so callers can branch with errors.Is(). Failures that
// need diagnostics (a path, a command, captured stderr) are carried by *Error,
// which unwraps to both its kind and its cause.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel error kinds. All messages are lowercase per Go conventions.
var (
	// ErrValidation indicates invalid user input or configuration.
	ErrValidation = errors.New("validation error")

	// ErrFileSystem indicates a read, write, mkdir, stat or copy failure.
	ErrFileSystem = errors.New("filesystem error")

	// ErrPathSecurity indicates a path that escapes its allowed base directory.
	ErrPathSecurity = errors.New("path security violation")

	// ErrCommandExecution indicates an external process that could not be
	// started, exited non-zero, timed out or was cancelled.
	ErrCommandExecution = errors.New("command execution failed")

	// ErrTemplateLoad indicates a packaged template or file asset that could not be read.
	ErrTemplateLoad = errors.New("template load failed")

	// ErrSkillInstall indicates that skill installation failed or selected nothing.
	ErrSkillInstall = errors.New("skill installation failed")

	// ErrOperationCancelled indicates the user cancelled the operation.
	ErrOperationCancelled = errors.New("operation cancelled")

	// ErrInternal indicates a packaging or programming defect rather than a
	// recoverable condition.
	ErrInternal = errors.New("internal error")

	// ErrRetryExhausted indicates every retry attempt failed.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrCircuitOpen indicates the circuit breaker rejected a call.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrLockHeld indicates another run holds the project lock.
	ErrLockHeld = errors.New("lock held by another process")

	// ErrConfigNotFound indicates an explicitly requested config file is missing.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrUnknownAgent indicates an ai tool id that is not in the agent registry.
	ErrUnknownAgent = errors.New("unknown agent")
)

// Stable machine-readable codes, one per kind.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeFileSystem       = "FILESYSTEM_ERROR"
	CodePathSecurity     = "PATH_SECURITY_ERROR"
	CodeCommandExecution = "COMMAND_EXECUTION_ERROR"
	CodeTemplateLoad     = "TEMPLATE_LOAD_ERROR"
	CodeSkillInstall     = "SKILL_INSTALL_ERROR"
	CodeCancelled        = "OPERATION_CANCELLED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeRetryExhausted   = "RETRY_EXHAUSTED"
	CodeCircuitOpen      = "CIRCUIT_OPEN"
	CodeLockHeld         = "LOCK_HELD"
)

// kindCodes maps each kind to its code. Order matters only for CodeOf's fallback scan.
//
//nolint:gochecknoglobals // Pre-built mapping
var kindCodes = []struct {
	kind error
	code string
}{
	{ErrValidation, CodeValidation},
	{ErrPathSecurity, CodePathSecurity},
	{ErrFileSystem, CodeFileSystem},
	{ErrCommandExecution, CodeCommandExecution},
	{ErrTemplateLoad, CodeTemplateLoad},
	{ErrSkillInstall, CodeSkillInstall},
	{ErrOperationCancelled, CodeCancelled},
	{ErrRetryExhausted, CodeRetryExhausted},
	{ErrCircuitOpen, CodeCircuitOpen},
	{ErrLockHeld, CodeLockHeld},
	{ErrUnknownAgent, CodeValidation},
	{ErrConfigNotFound, CodeValidation},
	{ErrInternal, CodeInternal},
}

// CodeOf returns the stable code for err. Errors that match no kind report
// CodeInternal, and nil reports an empty string.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	for _, kc := range kindCodes {
		if errors.Is(err, kc.kind) {
			return kc.code
		}
	}
	return CodeInternal
}

// IsOperational reports whether err is an expected failure that a user or
// operator can act on. Internal errors and unclassified errors are not.
func IsOperational(err error) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) != CodeInternal
}
