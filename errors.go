package multimap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the base error for rejected constructor or
	// operation arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilComparator is returned by NewWith when either comparator is nil.
	// Pass Natural explicitly if natural ordering is wanted.
	ErrNilComparator = fmt.Errorf("%w: comparator must not be nil", ErrInvalidArgument)
)

// RejectedOperandError reports a key or value the comparator refused to order.
//
// Before mutating any shared state, Put probes compare(x, x) on its operands;
// a comparator that panics on an operand (typically a nil pointer or nil
// interface) surfaces here instead of from deep inside the backing tree, and
// no partial insert is observable.
//
// The recovered panic value (if any) can be accessed via errors.Unwrap.
type RejectedOperandError struct {
	Operand string // "key" or "value"
	cause   error
}

func (e *RejectedOperandError) Error() string {
	return fmt.Sprintf("comparator rejected %s: %v", e.Operand, e.cause)
}

func (e *RejectedOperandError) Unwrap() error { return e.cause }

// Is reports a match for ErrInvalidArgument, so callers can treat rejection
// as an argument error without knowing the concrete type.
func (e *RejectedOperandError) Is(target error) bool {
	return target == ErrInvalidArgument
}
