// Copyright 2025 The numc Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numc

import (
	"errors"

	"github.com/numc-dev/numc/internal/matrix"
)

// ErrorKind classifies an Error.
type ErrorKind int

// Error kinds.
const (
	// ValueError reports a well-typed argument with a bad value: a
	// non-positive shape, mismatched dimensions, a bad slice.
	ValueError ErrorKind = iota + 1
	// IndexError reports an element or slice outside the matrix.
	IndexError
	// TypeError reports an operation unsupported for the matrix layout.
	TypeError
	// RuntimeError reports allocation failure or use of a closed matrix.
	RuntimeError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ValueError:
		return "ValueError"
	case IndexError:
		return "IndexError"
	case TypeError:
		return "TypeError"
	case RuntimeError:
		return "RuntimeError"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned by every numc operation.
type Error struct {
	Kind ErrorKind
	Op   string // operation that failed, e.g. "Add"
	Msg  string
	Err  error // engine cause, if any
}

func (e *Error) Error() string {
	return "numc: " + e.Op + ": " + e.Msg
}

// Unwrap returns the engine sentinel behind e, so errors.Is works against
// the matrix.Err* values.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a numc error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// wrap turns an engine error into an *Error.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	kind, msg := classify(err)
	return newError(kind, op, msg, err)
}

func classify(err error) (ErrorKind, string) {
	switch matrix.KindOf(err) {
	case matrix.KindInvalidShape:
		return ValueError, "rows and columns must be positive"
	case matrix.KindDimensionMismatch:
		return ValueError, "dimensions do not match"
	case matrix.KindNotSquare:
		return ValueError, "need a square matrix for power"
	case matrix.KindNegativeExponent:
		return ValueError, "power cannot be negative"
	case matrix.KindInvalidRange:
		return ValueError, "low must be less than high and both finite"
	case matrix.KindOutOfBounds:
		return IndexError, "slice is out of range"
	case matrix.KindAllocationFailure:
		return RuntimeError, "failed to allocate a matrix"
	case matrix.KindReleased, matrix.KindNilMatrix:
		return RuntimeError, "matrix is closed"
	default:
		return RuntimeError, err.Error()
	}
}
