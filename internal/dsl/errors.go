package dsl

import (
	"errors"
	"fmt"
)

// ExpansionErrorCode categorizes expansion failures.
type ExpansionErrorCode string

const (
	// ErrCodeMultipleAxes indicates more than one ordinary multi-value axis.
	ErrCodeMultipleAxes ExpansionErrorCode = "ERR_MULTIPLE_AXES"

	// ErrCodeTypeAxisArity indicates a type-field axis without exactly two values.
	ErrCodeTypeAxisArity ExpansionErrorCode = "ERR_TYPE_AXIS_ARITY"
)

// ExpansionError is an ambiguous-DSL failure. It is fatal to the offending
// row only; other rows continue.
type ExpansionError struct {
	Code       ExpansionErrorCode
	TestCaseID string
	Message    string
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("%s: %s (testcase=%s)", e.Code, e.Message, e.TestCaseID)
}

// IsExpansionError reports whether err is (or wraps) an ExpansionError.
func IsExpansionError(err error) bool {
	var ee *ExpansionError
	return errors.As(err, &ee)
}
