// File: error.go
// Title: Structured Error Type
// Description: Implements Error, a chainable error carrying a code,
//              severity, operation and details. Works with errors.Is and
//              errors.As through Unwrap.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with stack traces
// - 2026-10-19 v0.2.0: Stack capture removed, errors.As based helpers

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Error is a structured error
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	operation string
	details   map[string]interface{}
	timestamp time.Time
}

// New creates an error with code CodeUnknown
func New(message string) *Error {
	return &Error{
		message:   message,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		details:   make(map[string]interface{}),
		timestamp: time.Now(),
	}
}

// Newf creates an error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps err with message. A wrapped *Error passes on its code,
// severity and details.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := New(message)
	wrapped.cause = err
	if inner, ok := As(err); ok {
		wrapped.code = inner.code
		wrapped.severity = inner.severity
		for k, v := range inner.details {
			wrapped.details[k] = v
		}
	}
	return wrapped
}

// Error returns the message followed by the cause's message
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the cause
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the code and its default severity
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	e.severity = SeverityForCode(code)
	return e
}

// WithSeverity overrides the severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithOperation records the operation that failed
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithDetail adds a detail
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// WithDetails adds several details
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.details[k] = v
	}
	return e
}

// WithCause sets the cause of an error built with New
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// Message returns the message without the cause
func (e *Error) Message() string {
	return e.message
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Operation returns the operation that raised the error
func (e *Error) Operation() string {
	return e.operation
}

// Timestamp returns when the error was created
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Details returns a copy of the details
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// Detail returns one detail
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.details[key]
	return v, ok
}

// String returns a multi-line description for debugging
func (e *Error) String() string {
	parts := []string{
		fmt.Sprintf("Error: %s", e.message),
		fmt.Sprintf("Code: %s", e.code),
		fmt.Sprintf("Severity: %s", e.severity),
	}
	if e.operation != "" {
		parts = append(parts, "Operation: "+e.operation)
	}
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("  %s: %v", k, e.details[k]))
		}
	}
	if e.cause != nil {
		parts = append(parts, "Cause: "+e.cause.Error())
	}
	return strings.Join(parts, "\n")
}

// MarshalJSON implements json.Marshaler
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message":   e.message,
		"code":      e.code,
		"severity":  e.severity.String(),
		"timestamp": e.timestamp.Format(time.RFC3339),
	}
	if len(e.details) > 0 {
		data["details"] = e.details
	}
	if e.operation != "" {
		data["operation"] = e.operation
	}
	if e.cause != nil {
		data["cause"] = e.cause.Error()
	}
	return json.Marshal(data)
}

// As returns the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var mdwErr *Error
	if errors.As(err, &mdwErr) {
		return mdwErr, true
	}
	return nil, false
}

// HasCode reports whether the outermost *Error in err's chain has code
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of err, or CodeUnknown
func GetCode(err error) Code {
	if mdwErr, ok := As(err); ok {
		return mdwErr.code
	}
	return CodeUnknown
}

// IsControlFlow reports whether err is a control flow violation
func IsControlFlow(err error) bool {
	return GetCode(err).Category() == "control-flow"
}
