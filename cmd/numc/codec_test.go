package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMatrix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]float64
	}{
		{"Mapping", "rows:\n  - [1, 2]\n  - [3, 4.5]\n", [][]float64{{1, 2}, {3, 4.5}}},
		{"FlowMapping", "{rows: [[1], [2]]}", [][]float64{{1}, {2}}},
		{"BareList", "- [1, 2, 3]\n", [][]float64{{1, 2, 3}}},
		{"JSON", `{"rows": [[-1, 0.25]]}`, [][]float64{{-1, 0.25}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMatrix([]byte(tt.in))
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestDecodeMatrix_Errors(t *testing.T) {
	for name, in := range map[string]string{
		"Empty":      "",
		"Scalar":     "42",
		"NoRows":     "cols: 3",
		"NotNumbers": "[[a, b]]",
		"Malformed":  "[[1, 2",
	} {
		_, err := decodeMatrix([]byte(in))
		assert.Error(t, err, name)
	}
}

func TestEncodeMatrix_RoundTrip(t *testing.T) {
	rows := [][]float64{{1, -2.5}, {1e-9, 3}}
	var buf bytes.Buffer
	require.NoError(t, encodeMatrix(&buf, rows))
	assert.Contains(t, buf.String(), "rows: [[")

	got, err := decodeMatrix(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(rows, got))
}
