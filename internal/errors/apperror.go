package errors

import (
	"errors"
	"fmt"
)

// Error is a classified failure with diagnostic metadata.
//
// Kind is one of the sentinel errors in this package. Context is a free-form
// map for diagnostics; the typed fields duplicate the entries callers most
// often need so they do not have to type-assert map values.
type Error struct {
	// Kind is the sentinel classifying this error.
	Kind error
	// Message is the human-readable description.
	Message string
	// Context carries diagnostic key/value pairs.
	Context map[string]any
	// Path is the offending filesystem path, if any.
	Path string
	// Command is the command line that failed, if any.
	Command string
	// Stderr is the captured standard error of a failed command.
	Stderr string
	// Cause is the underlying error, if any.
	Cause error

	exitCode    int
	hasExitCode bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// Code returns the stable code of the error's kind.
func (e *Error) Code() string {
	for _, kc := range kindCodes {
		if e.Kind == kc.kind {
			return kc.code
		}
	}
	return CodeInternal
}

// Operational reports whether the error is an expected, actionable failure.
func (e *Error) Operational() bool {
	return e.Code() != CodeInternal
}

// ExitCode returns the process exit code and whether one was recorded.
func (e *Error) ExitCode() (int, bool) {
	return e.exitCode, e.hasExitCode
}

// WithContext adds a diagnostic key/value pair and returns e.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause records the underlying error and returns e.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithExitCode records a process exit code and returns e.
func (e *Error) WithExitCode(code int) *Error {
	e.exitCode = code
	e.hasExitCode = true
	return e.WithContext("exitCode", code)
}

// WithStderr records captured stderr and returns e.
func (e *Error) WithStderr(stderr string) *Error {
	e.Stderr = stderr
	return e.WithContext("stderr", stderr)
}

// NewError creates an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return NewError(ErrValidation, message)
}

// FileSystem creates a filesystem error for path. The cause's text is appended
// to message so the error reads well on its own.
func FileSystem(message, path string, cause error) *Error {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	e := NewError(ErrFileSystem, message).WithCause(cause).WithContext("path", path)
	e.Path = path
	return e
}

// PathSecurity creates a path-security error for path.
func PathSecurity(message, path string) *Error {
	e := NewError(ErrPathSecurity, message).WithContext("path", path)
	e.Path = path
	return e
}

// CommandExecution creates a command-execution error for command.
func CommandExecution(message, command string) *Error {
	e := NewError(ErrCommandExecution, message).WithContext("command", command)
	e.Command = command
	return e
}

// TemplateLoad creates a template-load error for the logical template path.
func TemplateLoad(message, templatePath string, cause error) *Error {
	return NewError(ErrTemplateLoad, message).
		WithCause(cause).
		WithContext("templatePath", templatePath)
}

// SkillInstall creates a skill-install error naming the skill or source.
func SkillInstall(message, skillName string) *Error {
	return NewError(ErrSkillInstall, message).WithContext("skillName", skillName)
}

// Cancelled creates a cancellation error. An empty message uses the default.
func Cancelled(message string) *Error {
	if message == "" {
		message = "Operation cancelled by user"
	}
	return NewError(ErrOperationCancelled, message)
}

// Internal creates a non-operational error.
func Internal(message string, cause error) *Error {
	return NewError(ErrInternal, message).WithCause(cause)
}

// Normalize converts any error into *Error, classifying unknown errors as Internal.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, kc := range kindCodes {
		if errors.Is(err, kc.kind) {
			return NewError(kc.kind, err.Error()).WithCause(err)
		}
	}
	return Internal(err.Error(), err)
}
