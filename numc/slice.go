// Copyright 2025 The numc Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numc

import (
	"math"

	"github.com/numc-dev/numc/internal/matrix"
)

// Range selects the half-open index interval [Start, Stop) with step 1.
// Stop is clamped to the dimension, so All spans any extent.
type Range struct {
	Start, Stop int
}

// All selects an entire dimension.
func All() Range { return Range{0, math.MaxInt} }

// Span selects [start, stop).
func Span(start, stop int) Range { return Range{start, stop} }

// Idx selects the single index i.
func Idx(i int) Range { return Range{i, i + 1} }

// resolve clamps r to a dimension of the given extent. A negative Start is
// a negative index; a Stop at or before Start, negative or not, selects
// nothing.
func (r Range) resolve(op string, extent int) (off, n int, err error) {
	if r.Start < 0 {
		return 0, 0, newError(ValueError, op, "negative indexing is not allowed", nil)
	}
	if r.Start >= extent {
		return 0, 0, newError(IndexError, op, "index is out of bounds", matrix.ErrOutOfBounds)
	}
	n = min(r.Stop, extent) - r.Start
	if n < 1 {
		return 0, 0, newError(ValueError, op, "slice shouldn't be less than 1", nil)
	}
	return r.Start, n, nil
}

// Slice returns a view of x[rows, cols]. The view shares storage with x.
func (x *Matrix) Slice(rows, cols Range) (*Matrix, error) {
	return x.view("Slice", rows, cols)
}

// Row returns a 1×cols view of row i.
func (x *Matrix) Row(i int) (*Matrix, error) {
	return x.view("Row", Idx(i), All())
}

// Col returns a rows×1 view of column j.
func (x *Matrix) Col(j int) (*Matrix, error) {
	return x.view("Col", All(), Idx(j))
}

func (x *Matrix) view(op string, rows, cols Range) (*Matrix, error) {
	if err := x.live(op); err != nil {
		return nil, err
	}
	r0, nr, err := rows.resolve(op, x.m.Rows())
	if err != nil {
		return nil, err
	}
	c0, nc, err := cols.resolve(op, x.m.Cols())
	if err != nil {
		return nil, err
	}
	v, err := x.eng.AllocateView(x.m, r0, c0, nr, nc)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &Matrix{m: v, eng: x.eng}, nil
}

// Assign copies src into x[rows, cols]. The region must have src's shape.
// src may overlap the region.
func (x *Matrix) Assign(rows, cols Range, src *Matrix) error {
	if err := src.live("Assign"); err != nil {
		return err
	}
	v, err := x.view("Assign", rows, cols)
	if err != nil {
		return err
	}
	defer v.Close()
	if v.m.Rows() != src.m.Rows() || v.m.Cols() != src.m.Cols() {
		return newError(ValueError, "Assign", "value has the wrong shape for the slice", matrix.ErrDimensionMismatch)
	}
	return wrap("Assign", x.eng.Copy(v.m, src.m))
}

// AssignValue sets every cell of x[rows, cols] to v.
func (x *Matrix) AssignValue(rows, cols Range, v float64) error {
	region, err := x.view("AssignValue", rows, cols)
	if err != nil {
		return err
	}
	defer region.Close()
	return wrap("AssignValue", x.eng.Fill(region.m, v))
}
