// Package errs defines the error taxonomy shared by the pricing pipeline.
//
// All errors carry a human-readable message and wrap one of the sentinel
// values below, so callers can branch with errors.Is while messages stay
// informative. The library never logs; errors propagate to the caller.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing curve id, cashflow id or FX pair.
	ErrNotFound = errors.New("not found")
	// ErrInvalidValue marks out-of-contract inputs (date before reference
	// date, duplicate index id, non-positive compound factor, ...).
	ErrInvalidValue = errors.New("invalid value")
	// ErrValueNotSet marks a required builder field or fixing that was
	// never supplied.
	ErrValueNotSet = errors.New("value not set")
	// ErrEvaluation marks a price-path failure.
	ErrEvaluation = errors.New("evaluation error")
	// ErrNotImplemented marks a declared but unsupported variant.
	ErrNotImplemented = errors.New("not implemented")
	// ErrSolver marks a root finder that failed to converge.
	ErrSolver = errors.New("solver error")
)

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func InvalidValue(format string, args ...any) error {
	return wrap(ErrInvalidValue, format, args...)
}

func ValueNotSet(format string, args ...any) error {
	return wrap(ErrValueNotSet, format, args...)
}

func Evaluation(format string, args ...any) error {
	return wrap(ErrEvaluation, format, args...)
}

func NotImplemented(format string, args ...any) error {
	return wrap(ErrNotImplemented, format, args...)
}

func Solver(format string, args ...any) error {
	return wrap(ErrSolver, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
