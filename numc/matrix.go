// Copyright 2025 The numc Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numc

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/numc-dev/numc/internal/matrix"
)

// Matrix is a dense rows×cols float64 matrix or a view into one.
//
// A Matrix is not safe for concurrent mutation. Creating, slicing and
// closing matrices that share storage must be serialized by the caller.
type Matrix struct {
	m   *matrix.Matrix
	eng *Engine
}

// New returns a zero-filled rows×cols matrix.
func New(rows, cols int, opts ...Option) (*Matrix, error) {
	o := resolveOptions(opts)
	return alloc("New", o.engine, rows, cols)
}

// Filled returns a rows×cols matrix with every cell set to v.
func Filled(rows, cols int, v float64, opts ...Option) (*Matrix, error) {
	return build("Filled", rows, cols, opts, func(e *Engine, m *matrix.Matrix) error {
		return e.Fill(m, v)
	})
}

// FromSlice returns a rows×cols matrix filled row-major from data, which
// must hold exactly rows*cols values.
func FromSlice(rows, cols int, data []float64, opts ...Option) (*Matrix, error) {
	res, err := New(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		res.Close()
		return nil, newError(ValueError, "FromSlice", "list of values has the wrong length", nil)
	}
	for i := range rows {
		copy(res.m.Row(i), data[i*cols:(i+1)*cols])
	}
	return res, nil
}

// FromRows returns a matrix built from a non-empty rectangular 2-D slice.
func FromRows(rows [][]float64, opts ...Option) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, newError(ValueError, "FromRows", "values must be a non-empty 2-D list", nil)
	}
	cols := len(rows[0])
	if !lo.EveryBy(rows, func(r []float64) bool { return len(r) == cols }) {
		return nil, newError(ValueError, "FromRows", "sublist of values has the wrong length", nil)
	}
	return FromSlice(len(rows), cols, lo.Flatten(rows), opts...)
}

// Rand returns a rows×cols matrix of values uniform in [low, high),
// reproducible for a given seed.
func Rand(rows, cols int, seed uint64, low, high float64, opts ...Option) (*Matrix, error) {
	return build("Rand", rows, cols, opts, func(e *Engine, m *matrix.Matrix) error {
		return e.RandomFill(m, seed, low, high)
	})
}

// Identity returns the n×n identity matrix.
func Identity(n int, opts ...Option) (*Matrix, error) {
	return build("Identity", n, n, opts, (*Engine).Identity)
}

// build allocates a rows×cols matrix and runs setup on it. A failed setup
// closes the matrix.
func build(op string, rows, cols int, opts []Option, setup func(*Engine, *matrix.Matrix) error) (*Matrix, error) {
	res, err := alloc(op, resolveOptions(opts).engine, rows, cols)
	if err != nil {
		return nil, err
	}
	if err := setup(res.eng, res.m); err != nil {
		res.Close()
		return nil, wrap(op, err)
	}
	return res, nil
}

func alloc(op string, eng *Engine, rows, cols int) (*Matrix, error) {
	m, err := eng.AllocateRoot(rows, cols)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &Matrix{m: m, eng: eng}, nil
}

// Shape returns (rows, cols).
func (x *Matrix) Shape() (rows, cols int) { return x.m.Shape() }

// Rows returns the row count.
func (x *Matrix) Rows() int { return x.m.Rows() }

// Cols returns the column count.
func (x *Matrix) Cols() int { return x.m.Cols() }

// IsVector reports whether one of the dimensions is 1. Vectors accept
// flat indexing through Index and SetIndex.
func (x *Matrix) IsVector() bool { return x.m.IsVector() }

// IsView reports whether x shares storage with the matrix it was sliced from.
func (x *Matrix) IsView() bool { return x.m.IsView() }

// Engine returns the engine x is bound to.
func (x *Matrix) Engine() *Engine { return x.eng }

// At returns x[i][j].
func (x *Matrix) At(i, j int) (float64, error) {
	if err := x.check("At", i, j); err != nil {
		return 0, err
	}
	return x.m.Get(i, j), nil
}

// Set assigns x[i][j] = v.
func (x *Matrix) Set(i, j int, v float64) error {
	if err := x.check("Set", i, j); err != nil {
		return err
	}
	x.m.Set(i, j, v)
	return nil
}

// Index returns cell k of a vector.
func (x *Matrix) Index(k int) (float64, error) {
	i, j, err := x.flatIndex("Index", k)
	if err != nil {
		return 0, err
	}
	return x.m.Get(i, j), nil
}

// SetIndex assigns cell k of a vector.
func (x *Matrix) SetIndex(k int, v float64) error {
	i, j, err := x.flatIndex("SetIndex", k)
	if err != nil {
		return err
	}
	x.m.Set(i, j, v)
	return nil
}

func (x *Matrix) check(op string, i, j int) error {
	if err := x.live(op); err != nil {
		return err
	}
	if i < 0 || i >= x.m.Rows() || j < 0 || j >= x.m.Cols() {
		return newError(IndexError, op, "row or column value is out of range", nil)
	}
	return nil
}

func (x *Matrix) flatIndex(op string, k int) (i, j int, err error) {
	if err := x.live(op); err != nil {
		return 0, 0, err
	}
	if !x.m.IsVector() {
		return 0, 0, newError(TypeError, op, "flat indexing needs a vector", nil)
	}
	n := x.m.Rows() * x.m.Cols()
	if k < 0 || k >= n {
		return 0, 0, newError(IndexError, op, "index is out of bounds", nil)
	}
	if x.m.Rows() == 1 {
		return 0, k, nil
	}
	return k, 0, nil
}

func (x *Matrix) live(op string) error {
	if x == nil || x.m == nil || x.m.Released() {
		return newError(RuntimeError, op, "matrix is closed", matrix.ErrReleased)
	}
	return nil
}

// ToRows returns a copy of x as a 2-D slice.
func (x *Matrix) ToRows() [][]float64 {
	if x.Closed() {
		return nil
	}
	return lo.Map(lo.Range(x.m.Rows()), func(i int, _ int) []float64 {
		return slices.Clone(x.m.Row(i))
	})
}

// String formats x as a nested list, e.g. [[1, 2], [3, 4]].
func (x *Matrix) String() string {
	if x == nil || x.m == nil {
		return "<nil>"
	}
	return x.m.String()
}

// Add returns x + o.
func (x *Matrix) Add(o *Matrix) (*Matrix, error) {
	return x.binary("Add", "addition", o, x.eng.Add)
}

// Sub returns x - o.
func (x *Matrix) Sub(o *Matrix) (*Matrix, error) {
	return x.binary("Sub", "subtraction", o, x.eng.Subtract)
}

// Neg returns -x.
func (x *Matrix) Neg() (*Matrix, error) {
	return x.unary("Neg", x.eng.Neg)
}

// Abs returns |x| cell-wise.
func (x *Matrix) Abs() (*Matrix, error) {
	return x.unary("Abs", x.eng.Abs)
}

// Mul returns the matrix product x·o.
func (x *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if err := x.live("Mul"); err != nil {
		return nil, err
	}
	if err := o.live("Mul"); err != nil {
		return nil, err
	}
	if x.m.Cols() != o.m.Rows() {
		return nil, newError(ValueError, "Mul",
			"dimensions do not match for matrix multiplication", matrix.ErrDimensionMismatch)
	}
	res, err := alloc("Mul", x.eng, x.m.Rows(), o.m.Cols())
	if err != nil {
		return nil, err
	}
	if err := x.eng.Multiply(res.m, x.m, o.m); err != nil {
		res.Close()
		return nil, wrap("Mul", err)
	}
	return res, nil
}

// Pow returns x raised to the non-negative integer power p.
func (x *Matrix) Pow(p int) (*Matrix, error) {
	if err := x.live("Pow"); err != nil {
		return nil, err
	}
	res, err := alloc("Pow", x.eng, x.m.Rows(), x.m.Cols())
	if err != nil {
		return nil, err
	}
	if err := x.eng.Power(res.m, x.m, p); err != nil {
		res.Close()
		return nil, wrap("Pow", err)
	}
	return res, nil
}

// T returns the transpose of x as a new matrix.
func (x *Matrix) T() (*Matrix, error) {
	if err := x.live("T"); err != nil {
		return nil, err
	}
	t, err := x.eng.Transpose(x.m)
	if err != nil {
		return nil, wrap("T", err)
	}
	return &Matrix{m: t, eng: x.eng}, nil
}

// Clone returns a deep copy of x that shares nothing with it.
func (x *Matrix) Clone() (*Matrix, error) {
	return x.unary("Clone", x.eng.Copy)
}

func (x *Matrix) unary(op string, kernel func(res, a *matrix.Matrix) error) (*Matrix, error) {
	if err := x.live(op); err != nil {
		return nil, err
	}
	res, err := alloc(op, x.eng, x.m.Rows(), x.m.Cols())
	if err != nil {
		return nil, err
	}
	if err := kernel(res.m, x.m); err != nil {
		res.Close()
		return nil, wrap(op, err)
	}
	return res, nil
}

func (x *Matrix) binary(op, noun string, o *Matrix, kernel func(res, a, b *matrix.Matrix) error) (*Matrix, error) {
	if err := x.live(op); err != nil {
		return nil, err
	}
	if err := o.live(op); err != nil {
		return nil, err
	}
	if x.m.Rows() != o.m.Rows() || x.m.Cols() != o.m.Cols() {
		return nil, newError(ValueError, op,
			"dimensions do not match for matrix "+noun, matrix.ErrDimensionMismatch)
	}
	res, err := alloc(op, x.eng, x.m.Rows(), x.m.Cols())
	if err != nil {
		return nil, err
	}
	if err := kernel(res.m, x.m, o.m); err != nil {
		res.Close()
		return nil, wrap(op, err)
	}
	return res, nil
}

// Equal reports whether x and o have the same shape and identical cells.
func (x *Matrix) Equal(o *Matrix) bool {
	return x.AllClose(o, 0, 0)
}

// AllClose reports whether x and o have the same shape and every pair of
// cells satisfies |a-b| <= atol + rtol*|b|.
func (x *Matrix) AllClose(o *Matrix, rtol, atol float64) bool {
	if x.live("AllClose") != nil || o.live("AllClose") != nil {
		return false
	}
	if x.m.Rows() != o.m.Rows() || x.m.Cols() != o.m.Cols() {
		return false
	}
	for i := range x.m.Rows() {
		brow := o.m.Row(i)
		for j, a := range x.m.Row(i) {
			b := brow[j]
			if a == b {
				continue
			}
			if !(math.Abs(a-b) <= atol+rtol*math.Abs(b)) {
				return false
			}
		}
	}
	return true
}

// Close releases x. Views of x stay usable; the shared storage is freed
// with the last of them. Close is idempotent.
func (x *Matrix) Close() {
	if x == nil || x.m == nil {
		return
	}
	x.eng.Release(x.m)
}

// Closed reports whether Close was called.
func (x *Matrix) Closed() bool {
	return x == nil || x.m == nil || x.m.Released()
}
