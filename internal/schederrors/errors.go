// Package schederrors defines the typed error kinds used across the
// scheduler pipeline, mirroring the shape of a standard internal error
// package: a wrapped cause plus a stable code for logging and exit-code
// decisions.
package schederrors

import (
	"errors"
	"fmt"
)

// Error is a typed pipeline error with a stable Code for log filtering
// and a wrapped cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined sentinels, one per pipeline error kind.
var (
	// ErrInputStructural marks a fatal failure of the Input Adapter or
	// the Model Builder; the pipeline wraps such errors with its code. A
	// structurally empty input is not one: the adapter turns it into
	// empty projections.
	ErrInputStructural = New("INPUT_STRUCTURAL", "missing required input collection")

	// ErrInputRow marks a single unresolvable row (unresolvable student,
	// course, or priority). The row is skipped; the pipeline continues.
	ErrInputRow = New("INPUT_ROW", "unresolvable input row")

	// ErrDefaulting marks that a defined default was silently applied
	// (missing capacity, teacher, or permitted blocks). Never aborts;
	// only counted and logged.
	ErrDefaulting = New("DEFAULTING_APPLIED", "default value applied")

	// ErrSolverNonOptimal marks that the ILP solver did not return an
	// optimal solution, triggering the greedy fallback.
	ErrSolverNonOptimal = New("SOLVER_NON_OPTIMAL", "solver did not reach an optimal solution")

	// ErrOutputSerialization marks a failure while writing output
	// artifacts. The CLI must exit non-zero when this occurs, even if
	// partial output was already written.
	ErrOutputSerialization = New("OUTPUT_SERIALIZATION", "failed to serialize output")
)

// FromError normalizes any error into an *Error, wrapping unrecognized
// errors as an input-row error (the most common default origin for
// ad-hoc parsing failures).
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInputRow.Code, ErrInputRow.Message)
}

// Is reports whether err carries the given sentinel's code, looking
// through wrapped causes.
func Is(err error, sentinel *Error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == sentinel.Code
	}
	return false
}
