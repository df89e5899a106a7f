// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Template errors
	ErrTemplateNotFound ErrorCode = "ERR-TMPL-001"
	ErrTemplateCopy     ErrorCode = "ERR-TMPL-002"
	ErrTemplateSetup    ErrorCode = "ERR-TMPL-003"

	// Build errors
	ErrBuildConfig   ErrorCode = "ERR-BUILD-001"
	ErrBuildFailed   ErrorCode = "ERR-BUILD-002"
	ErrBuildNoOutput ErrorCode = "ERR-BUILD-003"
	ErrBuildVersion  ErrorCode = "ERR-BUILD-004"

	// Runner errors
	ErrRunnerExec      ErrorCode = "ERR-RUNNER-001"
	ErrRunnerNotFound  ErrorCode = "ERR-RUNNER-002"
	ErrRunnerContainer ErrorCode = "ERR-RUNNER-003"

	// Artifact errors
	ErrArtifactRead     ErrorCode = "ERR-ART-001"
	ErrArtifactManifest ErrorCode = "ERR-ART-002"
	ErrArtifactChecksum ErrorCode = "ERR-ART-003"

	// Publish errors
	ErrServerUnreachable ErrorCode = "ERR-PUB-001"
	ErrPublishFailed     ErrorCode = "ERR-PUB-002"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"
)

// Error is the standard structured error type used across all orion packages.
type Error struct {
	Code     ErrorCode // Machine-parseable error code
	Op       string    // Operation chain, e.g., "build.galaxy_yml.merge"
	Resource string    // Resource identifier (template, artifact, server, ...)
	Cause    error     // Wrapped upstream error
	Advice   string    // Human-readable remediation hint
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Resource, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *Error) UserMessage() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource: %s)", e.Resource)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new Error.
func New(code ErrorCode, op string, cause error) *Error {
	return &Error{Code: code, Op: op, Cause: cause}
}

// Newf creates a new Error with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithResource sets the resource identifier on an Error.
func (e *Error) WithResource(res string) *Error {
	e.Resource = res
	return e
}

// WithAdvice sets the human-readable remediation hint on an Error.
func (e *Error) WithAdvice(advice string) *Error {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as an Error at a new operation boundary.
func Wrap(err error, code ErrorCode, op string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code == code
	}
	return false
}

// AsError extracts the *Error from err, or returns nil.
func AsError(err error) *Error {
	var oe *Error
	if errors.As(err, &oe) {
		return oe
	}
	return nil
}
