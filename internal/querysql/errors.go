package querysql

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrEmptyAssignmentSet is returned when no column assignments are given.
	// There is no meaningful "changed" predicate over zero columns.
	ErrEmptyAssignmentSet = errors.New("empty assignment set")

	// ErrMalformedFilter is returned when a base filter's parameter count does
	// not match its placeholder count.
	ErrMalformedFilter = errors.New("malformed filter")

	// ErrInvalidValue is returned when a present value cannot be bound.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidTarget is returned when an UPDATE has no table name.
	ErrInvalidTarget = errors.New("invalid update target")
)

// CompileErrorCode categorizes compile errors.
type CompileErrorCode string

const (
	// ErrCodeEmptyAssignmentSet indicates zero column assignments.
	ErrCodeEmptyAssignmentSet CompileErrorCode = "EMPTY_ASSIGNMENT_SET"

	// ErrCodeMalformedFilter indicates a placeholder/parameter count mismatch.
	ErrCodeMalformedFilter CompileErrorCode = "MALFORMED_FILTER"

	// ErrCodeInvalidValue indicates a value with no parameter form.
	ErrCodeInvalidValue CompileErrorCode = "INVALID_VALUE"

	// ErrCodeInvalidTarget indicates an empty table name.
	ErrCodeInvalidTarget CompileErrorCode = "INVALID_TARGET"
)

// CompileError is a synchronous validation failure raised by the compilers.
// Compilation is deterministic, so retrying with the same input is pointless.
type CompileError struct {
	// Code identifies the error category.
	Code CompileErrorCode

	// Message is a human-readable description.
	Message string

	// Column names the offending column, when there is one.
	Column string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Column != "" {
		msg = fmt.Sprintf("%s (column=%s)", msg, e.Column)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is maps error codes onto the package sentinels.
func (e *CompileError) Is(target error) bool {
	switch target {
	case ErrEmptyAssignmentSet:
		return e.Code == ErrCodeEmptyAssignmentSet
	case ErrMalformedFilter:
		return e.Code == ErrCodeMalformedFilter
	case ErrInvalidValue:
		return e.Code == ErrCodeInvalidValue
	case ErrInvalidTarget:
		return e.Code == ErrCodeInvalidTarget
	default:
		return false
	}
}

// ErrorCode returns the CompileErrorCode of err, or "" if err is not a
// CompileError. Uses errors.As to handle wrapped errors.
func ErrorCode(err error) CompileErrorCode {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func newEmptyAssignmentError() *CompileError {
	return &CompileError{
		Code:    ErrCodeEmptyAssignmentSet,
		Message: "at least one column assignment is required",
	}
}

// NewMalformedFilterError reports a filter whose placeholder count does not
// match its parameter count.
func NewMalformedFilterError(placeholders, params int) *CompileError {
	return &CompileError{
		Code:    ErrCodeMalformedFilter,
		Message: fmt.Sprintf("filter has %d placeholder(s) but %d parameter(s)", placeholders, params),
	}
}

func newInvalidValueError(column string, err error) *CompileError {
	return &CompileError{
		Code:    ErrCodeInvalidValue,
		Message: "value cannot be bound as a parameter",
		Column:  column,
		Err:     err,
	}
}
