package coerce

import (
	"errors"
	"fmt"
	"strings"

	"github.com/krypticmouse/dsgo/typeir"
)

// Sentinel errors the structured error types below unwrap to.
var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrMissingField      = errors.New("missing required field")
	ErrUnknownVariant    = errors.New("unknown enum variant")
	ErrUnionNoMatch      = errors.New("no union variant matched")
	ErrDepthExceeded     = errors.New("coercion depth exceeded")
	ErrCircularValue     = errors.New("circular value reference")
	ErrUnknownDefinition = errors.New("definition not in registry")
	ErrUnsupportedTarget = errors.New("unsupported coercion target")
	ErrAssertsFailed     = errors.New("assert constraints failed")
)

// TypeMismatchError reports coercion of a concrete value into an
// incompatible target.
type TypeMismatchError struct {
	Scope    string
	Expected *typeir.Type
	Actual   string
}

// Error implements error.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %v: expected %s, got %s", e.Scope, ErrTypeMismatch, e.Expected, e.Actual)
}

// Unwrap returns the taxonomy sentinel.
func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// MissingFieldError reports a required class field with no raw entry.
type MissingFieldError struct {
	Class string
	Field string
}

// Error implements error.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %s.%s", ErrMissingField, e.Class, e.Field)
}

// Unwrap returns the taxonomy sentinel.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// UnknownVariantError reports an enum coercion miss.
type UnknownVariantError struct {
	Enum  string
	Got   string
	Valid []string
}

// Error implements error.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%v: enum %s has no variant %q (valid: %s)",
		ErrUnknownVariant, e.Enum, e.Got, strings.Join(e.Valid, ", "))
}

// Unwrap returns the taxonomy sentinel.
func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

// UnionNoMatchError reports a union exhausted with no successful variant,
// carrying the per-member reasons.
type UnionNoMatchError struct {
	Target  *typeir.Type
	Reasons []error
}

// Error implements error.
func (e *UnionNoMatchError) Error() string {
	reasons := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		reasons[i] = r.Error()
	}

	return fmt.Sprintf("%v: %s: [%s]", ErrUnionNoMatch, e.Target, strings.Join(reasons, "; "))
}

// Unwrap returns the taxonomy sentinel.
func (e *UnionNoMatchError) Unwrap() error { return ErrUnionNoMatch }

// MultipleErrors aggregates per-field failures inside a class coercion.
// Partial holds the fields that did succeed.
type MultipleErrors struct {
	Scope   string
	Errors  []error
	Partial *Value
}

// Error implements error.
func (e *MultipleErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("%s: %d error(s): %s", e.Scope, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e *MultipleErrors) Unwrap() []error { return e.Errors }

// AssertFailedError reports assert-level constraint failures, deduplicated
// by label and expression.
type AssertFailedError struct {
	Failed []ConstraintResult
}

// Error implements error.
func (e *AssertFailedError) Error() string {
	labels := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		labels[i] = fmt.Sprintf("%s (%s)", f.Label, f.Expression)
	}

	return fmt.Sprintf("%v: %s", ErrAssertsFailed, strings.Join(labels, ", "))
}

// Unwrap returns the taxonomy sentinel.
func (e *AssertFailedError) Unwrap() error { return ErrAssertsFailed }
