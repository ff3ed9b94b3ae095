package matrix

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every operation wraps them with its operation tag via
// matrixErrorf; callers match with errors.Is.
var (
	// ErrInvalidShape is returned when a requested row or column count is not positive.
	ErrInvalidShape = errors.New("matrix: invalid shape")

	// ErrAllocationFailure is returned when backing storage cannot be allocated.
	ErrAllocationFailure = errors.New("matrix: allocation failure")

	// ErrOutOfBounds is returned when a view rectangle leaves its ancestor.
	ErrOutOfBounds = errors.New("matrix: view out of bounds")

	// ErrDimensionMismatch indicates incompatible operand or result shapes.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNotSquare is returned by Power for non-square input.
	ErrNotSquare = errors.New("matrix: matrix is not square")

	// ErrNegativeExponent is returned by Power for p < 0.
	ErrNegativeExponent = errors.New("matrix: negative exponent")

	// ErrInvalidRange is returned by RandomFill when low >= high or a bound is not finite.
	ErrInvalidRange = errors.New("matrix: invalid random range")

	// ErrReleased is returned when a released matrix is used as an operand.
	ErrReleased = errors.New("matrix: matrix already released")

	// ErrNilMatrix indicates a nil *Matrix argument.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)

// Operation tags used in error wrapping.
const (
	opAllocate  = "AllocateRoot"
	opView      = "AllocateView"
	opFill      = "Fill"
	opRandom    = "RandomFill"
	opAdd       = "Add"
	opSub       = "Subtract"
	opNeg       = "Neg"
	opAbs       = "Abs"
	opCopy      = "Copy"
	opIdentity  = "Identity"
	opTranspose = "Transpose"
	opMul       = "Multiply"
	opMulSmall  = "MultiplySmall"
	opMulLarge  = "MultiplyLarge"
	opPow       = "Power"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func matrixErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// Kind is the discriminated error category a boundary layer switches on.
type Kind int

// Error kinds.
const (
	KindNone Kind = iota
	KindInvalidShape
	KindAllocationFailure
	KindOutOfBounds
	KindDimensionMismatch
	KindNotSquare
	KindNegativeExponent
	KindInvalidRange
	KindReleased
	KindNilMatrix
	KindUnknown
)

var kindNames = [...]string{
	KindNone:              "None",
	KindInvalidShape:      "InvalidShape",
	KindAllocationFailure: "AllocationFailure",
	KindOutOfBounds:       "OutOfBounds",
	KindDimensionMismatch: "DimensionMismatch",
	KindNotSquare:         "NotSquare",
	KindNegativeExponent:  "NegativeExponent",
	KindInvalidRange:      "InvalidRange",
	KindReleased:          "Released",
	KindNilMatrix:         "NilMatrix",
	KindUnknown:           "Unknown",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

var kindSentinels = []struct {
	kind Kind
	err  error
}{
	{KindInvalidShape, ErrInvalidShape},
	{KindAllocationFailure, ErrAllocationFailure},
	{KindOutOfBounds, ErrOutOfBounds},
	{KindDimensionMismatch, ErrDimensionMismatch},
	{KindNotSquare, ErrNotSquare},
	{KindNegativeExponent, ErrNegativeExponent},
	{KindInvalidRange, ErrInvalidRange},
	{KindReleased, ErrReleased},
	{KindNilMatrix, ErrNilMatrix},
}

// KindOf classifies err. A nil error is KindNone; an error carrying none of
// the package sentinels is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindUnknown
}
