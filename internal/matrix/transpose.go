package matrix

import (
	"fmt"

	"github.com/numc-dev/numc/internal/parallel"
)

// transposeTile is the edge of the square tiles Transpose walks. 32×32
// float64 is 8 KiB per side, which keeps a source and destination tile
// inside L1 together.
const transposeTile = 32

// Transpose returns a new cols×rows root with dst[j][i] = src[i][j].
func (e *Engine) Transpose(src *Matrix) (*Matrix, error) {
	if err := checkLive(src); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dst, err := e.AllocateRoot(src.cols, src.rows)
	if err != nil {
		return nil, err
	}
	e.transpose(dst, src)
	return dst, nil
}

// TransposeInto writes srcᵀ into dst, which must be src.cols×src.rows.
// dst may share storage with src.
func (e *Engine) TransposeInto(dst, src *Matrix) error {
	if err := checkLive(dst, src); err != nil {
		return matrixErrorf(opTranspose, err)
	}
	if dst.rows != src.cols || dst.cols != src.rows {
		return fmt.Errorf("%s: %w: %dx%d into %dx%d",
			opTranspose, ErrDimensionMismatch, src.rows, src.cols, dst.rows, dst.cols)
	}
	if !dst.sharesStorage(src) {
		e.transpose(dst, src)
		return nil
	}
	tmp, err := e.Transpose(src)
	if err != nil {
		return err
	}
	defer e.Release(tmp)
	e.copyInto(dst, tmp)
	return nil
}

// transpose fills dst tile by tile. Each task owns a band of source rows,
// which is a band of destination columns, so tasks never write the same cell.
func (e *Engine) transpose(dst, src *Matrix) {
	rows, cols := src.rows, src.cols
	band := func(tileLo, tileHi int) {
		for i0 := tileLo * transposeTile; i0 < min(tileHi*transposeTile, rows); i0 += transposeTile {
			i1 := min(i0+transposeTile, rows)
			for j0 := 0; j0 < cols; j0 += transposeTile {
				j1 := min(j0+transposeTile, cols)
				for i := i0; i < i1; i++ {
					srow := src.rowData[i]
					for j := j0; j < j1; j++ {
						dst.rowData[j][i] = srow[j]
					}
				}
			}
		}
	}

	tiles := (rows + transposeTile - 1) / transposeTile
	if wide(rows, cols, e.cfg.TransposeParallelMin) {
		p := e.cfg.Parallel
		p.MinChunkSize = 1
		parallel.Range(tiles, band, p)
		return
	}
	band(0, tiles)
}
