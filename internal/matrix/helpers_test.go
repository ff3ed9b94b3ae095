package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestEngine returns an engine with thresholds low enough that small
// test inputs exercise the parallel and large-multiply paths.
func newTestEngine() *Engine {
	return New(
		WithElementwiseThreshold(8),
		WithLargeMultiplyThreshold(16),
		WithMultiplyParallelThreshold(16),
		WithTransposeThreshold(8),
		WithBlockSize(8),
		WithWorkers(4),
	)
}

func mustRoot(t testing.TB, e *Engine, rows, cols int) *Matrix {
	t.Helper()
	m, err := e.AllocateRoot(rows, cols)
	require.NoError(t, err)
	t.Cleanup(func() { e.Release(m) })
	return m
}

func mustView(t testing.TB, e *Engine, anc *Matrix, r0, c0, rows, cols int) *Matrix {
	t.Helper()
	v, err := e.AllocateView(anc, r0, c0, rows, cols)
	require.NoError(t, err)
	t.Cleanup(func() { e.Release(v) })
	return v
}

func fromRows(t testing.TB, e *Engine, rows [][]float64) *Matrix {
	t.Helper()
	m := mustRoot(t, e, len(rows), len(rows[0]))
	for i, row := range rows {
		copy(m.Row(i), row)
	}
	return m
}

func randMatrix(t testing.TB, e *Engine, rows, cols int, seed uint64) *Matrix {
	t.Helper()
	m := mustRoot(t, e, rows, cols)
	require.NoError(t, e.RandomFill(m, seed, -1, 1))
	return m
}

func toRows(m *Matrix) [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}

// refMul is the textbook triple loop, with Σ|a||b| per cell for tolerances.
func refMul(a, b *Matrix) (prod, mag [][]float64) {
	prod = make([][]float64, a.Rows())
	mag = make([][]float64, a.Rows())
	for i := range prod {
		prod[i] = make([]float64, b.Cols())
		mag[i] = make([]float64, b.Cols())
		for j := range prod[i] {
			for n := range a.Cols() {
				x := a.Get(i, n) * b.Get(n, j)
				prod[i][j] += x
				mag[i][j] += math.Abs(x)
			}
		}
	}
	return prod, mag
}

// requireMatches checks got against refMul(a, b) at relative error 1e-9.
func requireMatches(t *testing.T, got, a, b *Matrix) {
	t.Helper()
	want, mag := refMul(a, b)
	for i := range want {
		for j := range want[i] {
			tol := 1e-9 * math.Max(mag[i][j], 1e-300)
			require.InDelta(t, want[i][j], got.Get(i, j), tol, "cell (%d,%d)", i, j)
		}
	}
}

// requireClose compares two same-shaped matrices relative to their scale.
func requireClose(t *testing.T, want, got *Matrix, rel float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	scale := 1.0
	for i := range want.Rows() {
		for _, v := range want.Row(i) {
			scale = math.Max(scale, math.Abs(v))
		}
	}
	for i := range want.Rows() {
		for j := range want.Cols() {
			require.InDelta(t, want.Get(i, j), got.Get(i, j), rel*scale, "cell (%d,%d)", i, j)
		}
	}
}
