package query

import (
	"errors"
	"fmt"
)

// SpecError reports a malformed specification. Spec errors are always
// surfaced by Compile, never by Run: a *Query that compiled cannot fail at
// evaluation time.
type SpecError struct {
	// Code identifies the error category.
	Code SpecErrorCode

	// Message is a human-readable description.
	Message string
}

// SpecErrorCode categorizes specification errors.
type SpecErrorCode string

const (
	// ErrCodeEmptySpec indicates a top-level specification with no terms.
	ErrCodeEmptySpec SpecErrorCode = "SPEC_EMPTY"

	// ErrCodeNoFilter indicates a specification containing no relationship
	// filter at all. A purely attributive query should use the Source's
	// Lookup directly instead of compiling a plan.
	ErrCodeNoFilter SpecErrorCode = "SPEC_NO_FILTER"

	// ErrCodeInvalidTerm indicates a term that is neither a requirement nor
	// a well-formed filter (nil term, or a filter with no predicate).
	ErrCodeInvalidTerm SpecErrorCode = "SPEC_INVALID_TERM"
)

// Error implements the error interface.
func (e *SpecError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSpecError reports whether err is a SpecError, unwrapping as needed.
func IsSpecError(err error) bool {
	var se *SpecError
	return errors.As(err, &se)
}

func newSpecError(code SpecErrorCode, format string, args ...any) *SpecError {
	return &SpecError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// PlanError reports an internal invariant violation during plan construction.
// These are construction defects, not user errors: given a correct compiler
// they are unreachable. They are reported as a distinct type so callers never
// mistake them for bad input.
type PlanError struct {
	Message string
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	return "plan invariant violated: " + e.Message
}

// IsPlanError reports whether err is a PlanError, unwrapping as needed.
func IsPlanError(err error) bool {
	var pe *PlanError
	return errors.As(err, &pe)
}
