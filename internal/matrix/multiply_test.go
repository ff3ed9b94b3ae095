package matrix

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeName(n int) string {
	return fmt.Sprintf("%dx%d", n, n)
}

func TestMultiply_Known(t *testing.T) {
	e := newTestEngine()
	a := fromRows(t, e, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := fromRows(t, e, [][]float64{{7, 8}, {9, 10}, {11, 12}})
	want := [][]float64{{58, 64}, {139, 154}}

	for name, mul := range map[string]func(res, a, b *Matrix) error{
		"Multiply":      e.Multiply,
		"MultiplySmall": e.MultiplySmall,
		"MultiplyLarge": e.MultiplyLarge,
	} {
		t.Run(name, func(t *testing.T) {
			res := mustRoot(t, e, 2, 2)
			require.NoError(t, e.Fill(res, 123))
			require.NoError(t, mul(res, a, b))
			assert.Empty(t, cmp.Diff(want, toRows(res)))
		})
	}
}

// TestMultiply_AcrossThresholds covers shapes on both sides of the test
// engine's large-multiply (16) and parallel (16) thresholds, including
// reduction lengths that hit every tail of the dot kernel.
func TestMultiply_AcrossThresholds(t *testing.T) {
	e := newTestEngine()
	shapes := [][3]int{
		{1, 1, 1},
		{3, 4, 5},
		{15, 15, 15},
		{16, 3, 2},
		{2, 3, 16},
		{17, 17, 17},
		{20, 33, 18},
		{24, 19, 31},
		{5, 64, 40},
	}
	for i, s := range shapes {
		m, k, n := s[0], s[1], s[2]
		t.Run(fmt.Sprintf("%dx%dx%d", m, k, n), func(t *testing.T) {
			a := randMatrix(t, e, m, k, uint64(2*i+1))
			b := randMatrix(t, e, k, n, uint64(2*i+2))
			res := mustRoot(t, e, m, n)
			require.NoError(t, e.Multiply(res, a, b))
			requireMatches(t, res, a, b)
		})
	}
}

func TestMultiply_DefaultThresholds(t *testing.T) {
	if testing.Short() {
		t.Skip("large multiply")
	}
	e := New()
	a := randMatrix(t, e, 360, 40, 1)
	b := randMatrix(t, e, 40, 20, 2)
	res := mustRoot(t, e, 360, 20)
	require.NoError(t, e.Multiply(res, a, b))
	requireMatches(t, res, a, b)
}

func TestMultiply_SmallLargeAgree(t *testing.T) {
	e := newTestEngine()
	for _, n := range []int{4, 15, 16, 17, 31} {
		a := randMatrix(t, e, n, n+1, uint64(n))
		b := randMatrix(t, e, n+1, n, uint64(n+100))
		small := mustRoot(t, e, n, n)
		large := mustRoot(t, e, n, n)

		require.NoError(t, e.MultiplySmall(small, a, b))
		require.NoError(t, e.MultiplyLarge(large, a, b))
		requireClose(t, small, large, 1e-12)
	}
}

func TestMultiply_Views(t *testing.T) {
	e := newTestEngine()
	bigA := randMatrix(t, e, 22, 25, 8)
	bigB := randMatrix(t, e, 21, 23, 9)
	a := mustView(t, e, bigA, 1, 2, 18, 19)
	b := mustView(t, e, bigB, 2, 3, 19, 17)

	res := mustRoot(t, e, 18, 17)
	require.NoError(t, e.Multiply(res, a, b))
	requireMatches(t, res, a, b)
}

func TestMultiply_AliasedResult(t *testing.T) {
	e := newTestEngine()
	for _, n := range []int{3, 18} {
		a := randMatrix(t, e, n, n, 21)
		b := randMatrix(t, e, n, n, 22)
		want := mustRoot(t, e, n, n)
		require.NoError(t, e.Multiply(want, a, b))

		ca, err := e.Clone(a)
		require.NoError(t, err)
		require.NoError(t, e.Multiply(ca, ca, b))
		assert.Empty(t, cmp.Diff(toRows(want), toRows(ca)), "res == a, n=%d", n)
		e.Release(ca)

		cb, err := e.Clone(b)
		require.NoError(t, err)
		require.NoError(t, e.Multiply(cb, a, cb))
		assert.Empty(t, cmp.Diff(toRows(want), toRows(cb)), "res == b, n=%d", n)
		e.Release(cb)
	}
}

func TestMultiply_DimensionMismatch(t *testing.T) {
	e := newTestEngine()
	a := mustRoot(t, e, 2, 3)
	b := mustRoot(t, e, 4, 2)

	res := mustRoot(t, e, 2, 2)
	require.NoError(t, e.Fill(res, 3))
	err := e.Multiply(res, a, b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "Multiply")

	c := mustRoot(t, e, 3, 2)
	wrong := mustRoot(t, e, 3, 3)
	require.ErrorIs(t, e.Multiply(wrong, a, c), ErrDimensionMismatch)
	require.ErrorIs(t, e.MultiplySmall(wrong, a, c), ErrDimensionMismatch)
	require.ErrorIs(t, e.MultiplyLarge(wrong, a, c), ErrDimensionMismatch)

	for i := range res.Rows() {
		for _, v := range res.Row(i) {
			require.Equal(t, 3.0, v)
		}
	}
}

func TestMultiply_ParallelMatchesSequential(t *testing.T) {
	par := newTestEngine()
	seq := New(
		WithSequential(),
		WithLargeMultiplyThreshold(16),
		WithBlockSize(8),
	)
	a := randMatrix(t, par, 40, 37, 5)
	b := randMatrix(t, par, 37, 35, 6)
	rp := mustRoot(t, par, 40, 35)
	rs := mustRoot(t, seq, 40, 35)

	require.NoError(t, par.Multiply(rp, a, b))
	require.NoError(t, seq.Multiply(rs, a, b))
	assert.Empty(t, cmp.Diff(toRows(rs), toRows(rp)))
}

func TestMultiply_BlockSizeDoesNotChangeResult(t *testing.T) {
	a := randMatrix(t, New(), 20, 30, 1)
	b := randMatrix(t, New(), 30, 25, 2)

	var ref [][]float64
	for _, block := range []int{1, 7, 64} {
		e := New(WithBlockSize(block))
		res := mustRoot(t, e, 20, 25)
		require.NoError(t, e.MultiplyLarge(res, a, b))
		if ref == nil {
			ref = toRows(res)
			continue
		}
		assert.Empty(t, cmp.Diff(ref, toRows(res)), "block %d", block)
	}
}

func TestDot_Tails(t *testing.T) {
	for n := range 40 {
		x := make([]float64, n)
		y := make([]float64, n)
		want := 0.0
		for i := range n {
			x[i] = float64(i + 1)
			y[i] = float64(2*i - 3)
			want += x[i] * y[i]
		}
		// Small integers sum exactly in any order.
		require.Equal(t, want, dotScalar(x, y), "n=%d", n)
	}
}

func BenchmarkMultiply(b *testing.B) {
	e := New()
	for _, n := range []int{64, 256, 512} {
		x := randMatrix(b, e, n, n, 1)
		y := randMatrix(b, e, n, n, 2)
		res := mustRoot(b, e, n, n)
		b.Run("Small/"+sizeName(n), func(b *testing.B) {
			for b.Loop() {
				_ = e.MultiplySmall(res, x, y)
			}
		})
		b.Run("Large/"+sizeName(n), func(b *testing.B) {
			for b.Loop() {
				_ = e.MultiplyLarge(res, x, y)
			}
		})
	}
}
