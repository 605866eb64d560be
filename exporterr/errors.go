// Package exporterr defines the error kinds raised by the export engine.
//
// Validation failures are reported as *Error values carrying the component,
// operation and parameter that rejected the input. The wrapped sentinel tells
// callers which kind of failure occurred:
//
//	if errors.Is(err, exporterr.ErrColumnLimitExceeded) {
//	    // reject the request
//	}
//
// Cancellation is never converted into an *Error; it propagates as the
// context's own error.
package exporterr

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCollection is returned when a collection that must hold data is empty or nil.
	ErrEmptyCollection = errors.New("collection is empty")
	// ErrColumnLimitExceeded is returned when more columns are requested than a format allows.
	ErrColumnLimitExceeded = errors.New("column limit exceeded")
	// ErrMissingArgument is returned when a required argument is nil or blank.
	ErrMissingArgument = errors.New("missing argument")
	// ErrFieldNotFound is returned when a record lacks a field named by a column.
	ErrFieldNotFound = errors.New("field not found")
	// ErrBookFinalized is returned when a book is used after Finalize.
	ErrBookFinalized = errors.New("book already finalized")
	// ErrInvalidState is returned when book operations are called out of order.
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadySet is returned when a write-once result is written twice.
	ErrAlreadySet = errors.New("data already set")
	// ErrUnknownFormat is returned when no builder is registered for a file type.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrInvalidArgument is returned for out-of-range numeric arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is a validation failure raised at the boundary where the invalid
// input was first used.
type Error struct {
	Component string // component that rejected the input ("compiler", "builder", "sheets", ...)
	Operation string // operation that was running ("Compile", "Build", "AddRows", ...)
	Parameter string // offending parameter, if any
	Err       error  // one of the sentinel kinds, possibly wrapped
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("%s.%s(%s): %v", e.Component, e.Operation, e.Parameter, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Component, e.Operation, e.Err)
}

// Unwrap returns the underlying kind.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an *Error.
func New(component, operation, parameter string, err error) *Error {
	return &Error{
		Component: component,
		Operation: operation,
		Parameter: parameter,
		Err:       err,
	}
}

// Newf creates an *Error whose cause wraps kind with a formatted detail message.
func Newf(component, operation, parameter string, kind error, format string, args ...any) *Error {
	return New(component, operation, parameter, fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)))
}
