// Package dagerr defines the error taxonomy shared by the definition graph,
// the compiler and the online evaluation engine.
//
// Every error raised by the engine is a *Error carrying a Kind, so callers can
// tell construction-time problems (fix the graph definition) apart from
// evaluation-time problems (fix the input data) with errors.Is:
//
//	if errors.Is(err, dagerr.ErrDimensionMismatch) {
//	    // the input vectors have the wrong length
//	}
package dagerr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind string

const (
	// ParentCount means a node's parent cardinality violates its declared
	// policy, or every contributing parent produced an empty value.
	ParentCount Kind = "parent_count"
	// Validation means a node received a value of the wrong kind or the graph
	// configuration is inconsistent.
	Validation Kind = "validation"
	// DimensionMismatch means a vector's length disagrees with the declared one.
	DimensionMismatch Kind = "dimension_mismatch"
	// Initialization means a node factory was invoked with parents that are
	// inconsistent with the node kind.
	Initialization Kind = "initialization"
	// MissingStoredResult means a load-from-store path found nothing.
	MissingStoredResult Kind = "missing_stored_result"
	// NotSupported means an optional operation was not implemented.
	NotSupported Kind = "not_supported"
)

// Sentinel values for errors.Is. They match any *Error of the same Kind.
var (
	ErrParentCount         = &Error{Kind: ParentCount}
	ErrValidation          = &Error{Kind: Validation}
	ErrDimensionMismatch   = &Error{Kind: DimensionMismatch}
	ErrInitialization      = &Error{Kind: Initialization}
	ErrMissingStoredResult = &Error{Kind: MissingStoredResult}
	ErrNotSupported        = &Error{Kind: NotSupported}
)

// Error is the concrete error type returned by the engine.
type Error struct {
	Kind Kind
	// Node is the identity of the node that raised the error, if any.
	Node string
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Node != "" {
		msg = fmt.Sprintf("node %s: %s", e.Node, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap supports errors.Is and errors.As on the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind raised by node.
func New(kind Kind, node string, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping cause.
func Wrap(kind Kind, node string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// DimensionError is a DimensionMismatch error that keeps the offending
// dimension for callers that want to report it.
type DimensionError struct {
	Cause    *Error
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *DimensionError) Error() string { return e.Cause.Error() }

// Unwrap exposes the underlying *Error, so errors.Is matches
// ErrDimensionMismatch.
func (e *DimensionError) Unwrap() error { return e.Cause }

// Dimension creates a DimensionMismatch error for node.
func Dimension(node string, expected, actual int) *DimensionError {
	return &DimensionError{
		Cause:    New(DimensionMismatch, node, "can only process inputs of length %d, got %d", expected, actual),
		Expected: expected,
		Actual:   actual,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
