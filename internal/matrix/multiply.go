package matrix

import (
	"fmt"

	"github.com/numc-dev/numc/internal/parallel"
)

// Multiply computes res = a·b. a.cols must equal b.rows and res must be
// a.rows×b.cols.
//
// Products with a.rows and b.cols both below LargeMultiplyMin run the
// sequential i-n-j kernel; everything else runs the blocked kernel over bᵀ.
// res may share storage with a or b; the product is then computed into a
// scratch root first.
func (e *Engine) Multiply(res, a, b *Matrix) error {
	if err := checkProduct(opMul, res, a, b); err != nil {
		return err
	}
	return e.product(res, a, b, e.multiply)
}

// MultiplySmall is Multiply forced onto the i-n-j kernel.
func (e *Engine) MultiplySmall(res, a, b *Matrix) error {
	if err := checkProduct(opMulSmall, res, a, b); err != nil {
		return err
	}
	return e.product(res, a, b, e.multiplySmall)
}

// MultiplyLarge is Multiply forced onto the blocked transposed kernel.
func (e *Engine) MultiplyLarge(res, a, b *Matrix) error {
	if err := checkProduct(opMulLarge, res, a, b); err != nil {
		return err
	}
	return e.product(res, a, b, e.multiplyLarge)
}

func checkProduct(op string, res, a, b *Matrix) error {
	if err := checkLive(res, a, b); err != nil {
		return matrixErrorf(op, err)
	}
	if a.cols != b.rows {
		return fmt.Errorf("%s: %w: %dx%d · %dx%d", op, ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	if res.rows != a.rows || res.cols != b.cols {
		return fmt.Errorf("%s: %w: result %dx%d, want %dx%d",
			op, ErrDimensionMismatch, res.rows, res.cols, a.rows, b.cols)
	}
	return nil
}

type productKernel func(res, a, b *Matrix) error

// product runs kernel directly when res is independent of both operands
// and through a scratch root otherwise.
func (e *Engine) product(res, a, b *Matrix, kernel productKernel) error {
	if !res.sharesStorage(a) && !res.sharesStorage(b) {
		return kernel(res, a, b)
	}
	tmp, err := e.AllocateRoot(res.rows, res.cols)
	if err != nil {
		return err
	}
	defer e.Release(tmp)
	if err := kernel(tmp, a, b); err != nil {
		return err
	}
	e.copyInto(res, tmp)
	return nil
}

// multiply picks exactly one kernel by size.
func (e *Engine) multiply(res, a, b *Matrix) error {
	if a.rows < e.cfg.LargeMultiplyMin && b.cols < e.cfg.LargeMultiplyMin {
		return e.multiplySmall(res, a, b)
	}
	return e.multiplyLarge(res, a, b)
}

// multiplySmall accumulates res[i][j] += a[i][n]*b[n][j] with n in the
// middle loop, so res[i] and b[n] are both walked along their rows.
func (e *Engine) multiplySmall(res, a, b *Matrix) error {
	for i := range a.rows {
		rrow := res.rowData[i]
		clear(rrow)
		for n, ain := range a.rowData[i] {
			brow := b.rowData[n][:len(rrow)]
			for j := range rrow {
				rrow[j] += ain * brow[j]
			}
		}
	}
	return nil
}

// multiplyLarge transposes b so each output cell is a dot product of two
// contiguous rows. Rows of bᵀ are visited in blocks of BlockSize so one
// block stays cached across a range of output rows. Workers own disjoint
// output rows.
func (e *Engine) multiplyLarge(res, a, b *Matrix) error {
	bT, err := e.Transpose(b)
	if err != nil {
		return err
	}
	defer e.Release(bT)

	n, block := bT.rows, e.cfg.BlockSize
	rows := func(lo, hi int) {
		for j0 := 0; j0 < n; j0 += block {
			j1 := min(j0+block, n)
			for i := lo; i < hi; i++ {
				arow, rrow := a.rowData[i], res.rowData[i]
				for j := j0; j < j1; j++ {
					rrow[j] = e.k.dot(arow, bT.rowData[j])
				}
			}
		}
	}

	if wide(a.rows, a.cols, e.cfg.MultiplyParallelMin) {
		parallel.Range(a.rows, rows, e.cfg.Parallel)
		return nil
	}
	rows(0, a.rows)
	return nil
}

// dotScalar returns Σ x[i]*y[i] for len(x) == len(y).
//
// Four 4-lane accumulators consume 16 elements per step, one more 4-lane
// pass takes the next multiples of 4, then lanes are reduced and the last
// 0-3 elements are added as scalars.
func dotScalar(x, y []float64) float64 {
	n := len(x)
	y = y[:n]
	var acc0, acc1, acc2, acc3 [4]float64

	i := 0
	for ; i+16 <= n; i += 16 {
		xs, ys := x[i:i+16:i+16], y[i:i+16:i+16]
		for l := range 4 {
			acc0[l] += xs[l] * ys[l]
			acc1[l] += xs[4+l] * ys[4+l]
			acc2[l] += xs[8+l] * ys[8+l]
			acc3[l] += xs[12+l] * ys[12+l]
		}
	}
	for ; i+4 <= n; i += 4 {
		xs, ys := x[i:i+4:i+4], y[i:i+4:i+4]
		for l := range 4 {
			acc0[l] += xs[l] * ys[l]
		}
	}

	var sum float64
	for l := range 4 {
		sum += (acc0[l] + acc1[l]) + (acc2[l] + acc3[l])
	}
	for ; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}
