// Copyright 2025 The numc Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numc-dev/numc/numc"
)

func grid(t *testing.T) *numc.Matrix {
	return mustRows(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	})
}

func TestSlice(t *testing.T) {
	m := grid(t)

	tests := []struct {
		name       string
		rows, cols numc.Range
		want       [][]float64
	}{
		{"All", numc.All(), numc.All(), [][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}},
		{"Block", numc.Span(1, 3), numc.Span(1, 3), [][]float64{{6, 7}, {10, 11}}},
		{"ClampedStop", numc.Span(2, 10), numc.Span(2, 99), [][]float64{{11, 12}}},
		{"Cell", numc.Idx(0), numc.Idx(3), [][]float64{{4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := m.Slice(tt.rows, tt.cols)
			require.NoError(t, err)
			defer v.Close()
			assert.True(t, v.IsView())
			assert.Empty(t, cmp.Diff(tt.want, v.ToRows()))
		})
	}
}

func TestSlice_Errors(t *testing.T) {
	m := grid(t)

	tests := []struct {
		name       string
		rows, cols numc.Range
		want       numc.ErrorKind
	}{
		{"NegativeStart", numc.Span(-1, 2), numc.All(), numc.ValueError},
		{"NegativeStop", numc.All(), numc.Span(0, -1), numc.ValueError},
		{"StartPastEnd", numc.Idx(3), numc.All(), numc.IndexError},
		{"ColPastEnd", numc.All(), numc.Idx(4), numc.IndexError},
		{"Empty", numc.Span(2, 2), numc.All(), numc.ValueError},
		{"Reversed", numc.All(), numc.Span(3, 1), numc.ValueError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Slice(tt.rows, tt.cols)
			requireKind(t, err, tt.want)
		})
	}
}

func TestSlice_ErrorMessages(t *testing.T) {
	m := grid(t)

	_, err := m.Row(-1)
	requireKind(t, err, numc.ValueError)
	assert.Equal(t, "numc: Row: negative indexing is not allowed", err.Error())

	_, err = m.Col(-1)
	assert.Equal(t, "numc: Col: negative indexing is not allowed", err.Error())

	_, err = m.Slice(numc.Span(1, -1), numc.All())
	requireKind(t, err, numc.ValueError)
	assert.Equal(t, "numc: Slice: slice shouldn't be less than 1", err.Error())

	_, err = m.Slice(numc.All(), numc.Span(2, 2))
	assert.Equal(t, "numc: Slice: slice shouldn't be less than 1", err.Error())
}

func TestViews_WriteThrough(t *testing.T) {
	m := grid(t)
	v, err := m.Slice(numc.Span(1, 3), numc.Span(2, 4))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.Set(0, 0, -7))
	got, _ := m.At(1, 2)
	assert.Equal(t, -7.0, got)

	require.NoError(t, m.Set(2, 3, 100))
	got, _ = v.At(1, 1)
	assert.Equal(t, 100.0, got)

	_, err = v.At(2, 0)
	requireKind(t, err, numc.IndexError)
}

func TestRowCol(t *testing.T) {
	m := grid(t)

	r, err := m.Row(1)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.IsVector())
	assert.Empty(t, cmp.Diff([][]float64{{5, 6, 7, 8}}, r.ToRows()))

	c, err := m.Col(2)
	require.NoError(t, err)
	defer c.Close()
	v, err := c.Index(2)
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)

	_, err = m.Row(3)
	requireKind(t, err, numc.IndexError)
}

func TestAssign(t *testing.T) {
	m := grid(t)
	src := mustRows(t, [][]float64{{0, -1}, {-2, -3}})

	require.NoError(t, m.Assign(numc.Span(0, 2), numc.Span(2, 4), src))
	assert.Empty(t, cmp.Diff([][]float64{
		{1, 2, 0, -1},
		{5, 6, -2, -3},
		{9, 10, 11, 12},
	}, m.ToRows()))

	err := m.Assign(numc.All(), numc.All(), src)
	requireKind(t, err, numc.ValueError)

	require.NoError(t, m.AssignValue(numc.Idx(2), numc.All(), 7))
	row, _ := m.Row(2)
	defer row.Close()
	assert.Empty(t, cmp.Diff([][]float64{{7, 7, 7, 7}}, row.ToRows()))
}

func TestAssign_OverlappingSource(t *testing.T) {
	m := grid(t)
	src, err := m.Slice(numc.Span(0, 2), numc.Span(0, 3))
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, m.Assign(numc.Span(1, 3), numc.Span(1, 4), src))
	assert.Empty(t, cmp.Diff([][]float64{
		{1, 2, 3, 4},
		{5, 1, 2, 3},
		{9, 5, 6, 7},
	}, m.ToRows()))
}

func TestView_OutlivesParent(t *testing.T) {
	m, err := numc.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	v, err := m.Col(1)
	require.NoError(t, err)

	m.Close()
	assert.True(t, m.Closed())
	assert.Empty(t, cmp.Diff([][]float64{{2}, {4}}, v.ToRows()))

	_, err = m.Row(0)
	requireKind(t, err, numc.RuntimeError)
	v.Close()
}

func TestEngineOptions(t *testing.T) {
	e := numc.NewEngine(numc.WithWorkers(2), numc.WithBlockSize(8))
	cfg := e.Config()
	assert.Equal(t, 2, cfg.Parallel.NumWorkers)
	assert.Equal(t, 8, cfg.BlockSize)
	assert.NotNil(t, numc.DefaultEngine())
}
