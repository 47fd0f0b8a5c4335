// Package routeerr defines the error taxonomy shared across the routing core.
package routeerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by what went wrong, not where.
type Kind int

const (
	// OutOfRange means a node id, edge id, or range bound exceeded its container.
	OutOfRange Kind = iota
	// InvalidRange means l > r on a range operation.
	InvalidRange
	// InvalidInput means a malformed graph-input description or an invalid congestion factor.
	InvalidInput
	// Internal is a catch-all for conditions that should not arise from a correct core.
	Internal
)

func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "out_of_range"
	case InvalidRange:
		return "invalid_range"
	case InvalidInput:
		return "invalid_input"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error attaches a Kind and an operation name to an underlying error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err (may be nil) with a Kind and the operation that produced it.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted message in place of a wrapped error.
func Newf(kind Kind, op, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, a...)}
}

// KindOf reports the Kind attached to err, if any, by unwrapping through the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
