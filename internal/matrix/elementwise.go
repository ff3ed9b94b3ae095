package matrix

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/numc-dev/numc/internal/parallel"
)

// Fill sets every cell of m to v.
func (e *Engine) Fill(m *Matrix, v float64) error {
	if err := checkLive(m); err != nil {
		return matrixErrorf(opFill, err)
	}
	e.fill(m, v)
	return nil
}

// RandomFill fills m with values uniform in [low, high) drawn from a PCG
// stream seeded with seed. Cells are visited in row-major order on one
// goroutine, so the output depends only on seed and shape.
func (e *Engine) RandomFill(m *Matrix, seed uint64, low, high float64) error {
	if err := checkLive(m); err != nil {
		return matrixErrorf(opRandom, err)
	}
	if !(low < high) || math.IsInf(low, 0) || math.IsInf(high, 0) {
		return fmt.Errorf("%s: %w: [%g, %g)", opRandom, ErrInvalidRange, low, high)
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	top := math.Nextafter(high, low)
	for _, row := range m.rowData {
		for j := range row {
			u := r.Float64()
			// Interpolating keeps high-low from overflowing for wide ranges.
			v := low*(1-u) + high*u
			if v < low {
				v = low
			} else if v >= high {
				v = top
			}
			row[j] = v
		}
	}
	return nil
}

// Add computes res = a + b.
func (e *Engine) Add(res, a, b *Matrix) error {
	if err := e.checkBinary(opAdd, res, a, b); err != nil {
		return err
	}
	return e.mapBinary(res, a, b, e.k.add)
}

// Subtract computes res = a - b.
func (e *Engine) Subtract(res, a, b *Matrix) error {
	if err := e.checkBinary(opSub, res, a, b); err != nil {
		return err
	}
	return e.mapBinary(res, a, b, e.k.sub)
}

// Neg computes res = -a.
func (e *Engine) Neg(res, a *Matrix) error {
	if err := e.checkUnary(opNeg, res, a); err != nil {
		return err
	}
	return e.mapUnary(res, a, e.k.neg)
}

// Abs computes res = |a|.
func (e *Engine) Abs(res, a *Matrix) error {
	if err := e.checkUnary(opAbs, res, a); err != nil {
		return err
	}
	return e.mapUnary(res, a, absKernel)
}

// Copy copies a into res. Overlapping views of one buffer are handled.
func (e *Engine) Copy(res, a *Matrix) error {
	if err := e.checkUnary(opCopy, res, a); err != nil {
		return err
	}
	if res == a {
		return nil
	}
	return e.mapUnary(res, a, copyKernel)
}

// CopyFrom copies src into m on the calling goroutine.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if err := checkLive(m, src); err != nil {
		return matrixErrorf(opCopy, err)
	}
	if !sameShape(m, src) {
		return mismatch(opCopy, m, src)
	}
	if m == src {
		return nil
	}
	rows := src.rowData
	if shifted(m, src) {
		// Snapshot first: a shifted destination row may overlap a later source row.
		rows = make([][]float64, src.rows)
		for i, row := range src.rowData {
			rows[i] = append([]float64(nil), row...)
		}
	}
	for i, row := range rows {
		copy(m.rowData[i], row)
	}
	return nil
}

// Identity sets the square matrix res to the identity.
func (e *Engine) Identity(res *Matrix) error {
	if err := checkLive(res); err != nil {
		return matrixErrorf(opIdentity, err)
	}
	if res.rows != res.cols {
		return fmt.Errorf("%s: %w: %dx%d", opIdentity, ErrNotSquare, res.rows, res.cols)
	}
	e.fill(res, 0)
	for i := range res.rows {
		res.rowData[i][i] = 1
	}
	return nil
}

func (e *Engine) checkUnary(op string, res, a *Matrix) error {
	if err := checkLive(res, a); err != nil {
		return matrixErrorf(op, err)
	}
	if !sameShape(res, a) {
		return mismatch(op, a, res)
	}
	return nil
}

func (e *Engine) checkBinary(op string, res, a, b *Matrix) error {
	if err := checkLive(res, a, b); err != nil {
		return matrixErrorf(op, err)
	}
	if !sameShape(a, b, res) {
		return mismatch(op, a, b, res)
	}
	return nil
}

// mismatch builds an ErrDimensionMismatch listing operand shapes.
func mismatch(op string, ms ...*Matrix) error {
	shapes := make([]string, len(ms))
	for i, m := range ms {
		shapes[i] = fmt.Sprintf("%dx%d", m.rows, m.cols)
	}
	return fmt.Errorf("%s: %w: %s", op, ErrDimensionMismatch, strings.Join(shapes, ", "))
}

// shifted reports whether a and b alias one buffer at different origins.
// Matrices sharing a buffer share its row stride, so equal origins and
// shapes mean identical cells.
func shifted(a, b *Matrix) bool {
	return a.sharesStorage(b) && &a.rowData[0][0] != &b.rowData[0][0]
}

func (e *Engine) fill(m *Matrix, v float64) {
	if m.flat != nil {
		dst := m.flat
		e.spanFlat(m, func(lo, hi int) { fillKernel(dst[lo:hi], v) })
		return
	}
	e.eachRow(m, func(i int) { fillKernel(m.rowData[i], v) })
}

// copyInto is Copy without validation, for engine-internal roots.
func (e *Engine) copyInto(res, a *Matrix) {
	e.runUnary(res, a, copyKernel)
}

// mapUnary applies k cell-wise. A res that aliases a at a different origin
// is computed through a scratch root.
func (e *Engine) mapUnary(res, a *Matrix, k func(dst, a []float64)) error {
	if !shifted(res, a) {
		e.runUnary(res, a, k)
		return nil
	}
	tmp, err := e.AllocateRoot(res.rows, res.cols)
	if err != nil {
		return err
	}
	defer e.Release(tmp)
	e.runUnary(tmp, a, k)
	e.runUnary(res, tmp, copyKernel)
	return nil
}

func (e *Engine) mapBinary(res, a, b *Matrix, k func(dst, a, b []float64)) error {
	if !shifted(res, a) && !shifted(res, b) {
		e.runBinary(res, a, b, k)
		return nil
	}
	tmp, err := e.AllocateRoot(res.rows, res.cols)
	if err != nil {
		return err
	}
	defer e.Release(tmp)
	e.runBinary(tmp, a, b, k)
	e.runUnary(res, tmp, copyKernel)
	return nil
}

// runUnary takes the flat path when both operands are contiguous and the
// per-row path otherwise.
func (e *Engine) runUnary(res, a *Matrix, k func(dst, a []float64)) {
	if res.flat != nil && a.flat != nil {
		dst, src := res.flat, a.flat
		e.spanFlat(res, func(lo, hi int) { k(dst[lo:hi], src[lo:hi]) })
		return
	}
	e.eachRow(res, func(i int) { k(res.rowData[i], a.rowData[i]) })
}

func (e *Engine) runBinary(res, a, b *Matrix, k func(dst, a, b []float64)) {
	if res.flat != nil && a.flat != nil && b.flat != nil {
		dst, x, y := res.flat, a.flat, b.flat
		e.spanFlat(res, func(lo, hi int) { k(dst[lo:hi], x[lo:hi], y[lo:hi]) })
		return
	}
	e.eachRow(res, func(i int) { k(res.rowData[i], a.rowData[i], b.rowData[i]) })
}

// spanFlat runs f over [0, rows*cols) of m, split on multiples of 4 when m
// crosses the element-wise threshold.
func (e *Engine) spanFlat(m *Matrix, f func(lo, hi int)) {
	n := m.rows * m.cols
	if wide(m.rows, m.cols, e.cfg.ElementwiseParallelMin) {
		parallel.RangeAligned(n, 4, f, e.cfg.Parallel)
		return
	}
	f(0, n)
}

// eachRow runs f for every row index of m. Rows are independent, so wide
// matrices hand row indices to workers.
func (e *Engine) eachRow(m *Matrix, f func(i int)) {
	if wide(m.rows, m.cols, e.cfg.ElementwiseParallelMin) {
		parallel.For(m.rows, f, e.cfg.Parallel)
		return
	}
	for i := range m.rows {
		f(i)
	}
}

// Kernels process 4 cells per iteration with a scalar tail. The reslices
// let the compiler drop bounds checks in the unrolled body.

func fillKernel(dst []float64, v float64) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = v
		dst[i+1] = v
		dst[i+2] = v
		dst[i+3] = v
	}
	for ; i < n; i++ {
		dst[i] = v
	}
}

func addKernel(dst, a, b []float64) {
	n := len(dst)
	a, b = a[:n], b[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = a[i] + b[i]
		dst[i+1] = a[i+1] + b[i+1]
		dst[i+2] = a[i+2] + b[i+2]
		dst[i+3] = a[i+3] + b[i+3]
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

func subKernel(dst, a, b []float64) {
	n := len(dst)
	a, b = a[:n], b[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = a[i] - b[i]
		dst[i+1] = a[i+1] - b[i+1]
		dst[i+2] = a[i+2] - b[i+2]
		dst[i+3] = a[i+3] - b[i+3]
	}
	for ; i < n; i++ {
		dst[i] = a[i] - b[i]
	}
}

func negKernel(dst, a []float64) {
	n := len(dst)
	a = a[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = -a[i]
		dst[i+1] = -a[i+1]
		dst[i+2] = -a[i+2]
		dst[i+3] = -a[i+3]
	}
	for ; i < n; i++ {
		dst[i] = -a[i]
	}
}

func absKernel(dst, a []float64) {
	n := len(dst)
	a = a[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = math.Abs(a[i])
		dst[i+1] = math.Abs(a[i+1])
		dst[i+2] = math.Abs(a[i+2])
		dst[i+3] = math.Abs(a[i+3])
	}
	for ; i < n; i++ {
		dst[i] = math.Abs(a[i])
	}
}

func copyKernel(dst, a []float64) {
	copy(dst, a)
}
