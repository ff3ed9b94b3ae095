package matrix

import (
	"fmt"
	"strings"

	"github.com/numc-dev/numc/internal/parallel"
)

// Matrix is a rows×cols float64 matrix.
//
// A root matrix owns its buffer and its rows are contiguous. A view aliases
// a rectangle of an ancestor: its row slices point into the ancestor's rows
// shifted by a column origin, it shares the ancestor's buffer and it owns
// only its row table.
type Matrix struct {
	rows, cols int
	buf        *buffer     // shared storage handle (nil once torn down)
	rowData    [][]float64 // row i is exactly cols long
	flat       []float64   // rows*cols contiguous elements; nil unless contiguous
	isVector   bool
	refCnt     int     // 1 for itself + live child views
	parent     *Matrix // nil for roots
	released   bool    // Release was called
	freed      bool    // resources dropped
}

// AllocateRoot returns a zero-filled rows×cols root matrix.
func (e *Engine) AllocateRoot(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%s(%d,%d): %w", opAllocate, rows, cols, ErrInvalidShape)
	}
	if cols > e.cfg.MaxElements/rows {
		return nil, fmt.Errorf("%s(%d,%d): %w: exceeds %d elements",
			opAllocate, rows, cols, ErrAllocationFailure, e.cfg.MaxElements)
	}

	buf, err := newBuffer(rows * cols)
	if err != nil {
		return nil, matrixErrorf(opAllocate, err)
	}
	m := &Matrix{
		rows:     rows,
		cols:     cols,
		buf:      buf,
		flat:     buf.data,
		isVector: rows == 1 || cols == 1,
		refCnt:   1,
	}
	if err := guardAlloc(func() { m.rowData = make([][]float64, rows) }); err != nil {
		buf.release()
		return nil, matrixErrorf(opAllocate, err)
	}

	data := buf.data
	e.linkRows(m, func(i int) []float64 {
		off := i * cols
		return data[off : off+cols : off+cols]
	})
	return m, nil
}

// AllocateView returns a matrix aliasing
// ancestor[rowOff:rowOff+rows, colOff:colOff+cols]. The full rectangle must
// lie inside the ancestor.
func (e *Engine) AllocateView(ancestor *Matrix, rowOff, colOff, rows, cols int) (*Matrix, error) {
	if ancestor == nil {
		return nil, matrixErrorf(opView, ErrNilMatrix)
	}
	if ancestor.released {
		return nil, matrixErrorf(opView, ErrReleased)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%s(%d,%d,%d,%d): %w", opView, rowOff, colOff, rows, cols, ErrInvalidShape)
	}
	if rowOff < 0 || colOff < 0 || rowOff+rows > ancestor.rows || colOff+cols > ancestor.cols {
		return nil, fmt.Errorf("%s(%d,%d,%d,%d) of %dx%d: %w",
			opView, rowOff, colOff, rows, cols, ancestor.rows, ancestor.cols, ErrOutOfBounds)
	}

	v := &Matrix{
		rows:     rows,
		cols:     cols,
		buf:      ancestor.buf,
		isVector: rows == 1 || cols == 1,
		refCnt:   1,
		parent:   ancestor,
	}
	if err := guardAlloc(func() { v.rowData = make([][]float64, rows) }); err != nil {
		return nil, matrixErrorf(opView, err)
	}

	src := ancestor.rowData
	e.linkRows(v, func(i int) []float64 {
		return src[rowOff+i][colOff : colOff+cols : colOff+cols]
	})
	// Full-width windows of a contiguous ancestor stay contiguous.
	if ancestor.flat != nil && colOff == 0 && cols == ancestor.cols {
		lo, hi := rowOff*cols, (rowOff+rows)*cols
		v.flat = ancestor.flat[lo:hi:hi]
	}

	ancestor.buf.addRef()
	ancestor.refCnt++
	return v, nil
}

// linkRows fills m.rowData[i] = row(i) in chunks of 4 rows, fanning out
// for large matrices. Every write targets a distinct slot.
func (e *Engine) linkRows(m *Matrix, row func(i int) []float64) {
	table := m.rowData
	body := func(start, end int) {
		i := start
		for ; i+4 <= end; i += 4 {
			table[i] = row(i)
			table[i+1] = row(i + 1)
			table[i+2] = row(i + 2)
			table[i+3] = row(i + 3)
		}
		for ; i < end; i++ {
			table[i] = row(i)
		}
	}
	if wide(m.rows, m.cols, e.cfg.ElementwiseParallelMin) {
		parallel.RangeAligned(m.rows, 4, body, e.cfg.Parallel)
		return
	}
	body(0, m.rows)
}

// Release gives up the caller's claim on m. A matrix whose views are still
// alive is only marked; it is torn down when its last view goes. Tearing a
// view down decrements its parent and may cascade up the chain. Calling
// Release again is a no-op.
func (e *Engine) Release(m *Matrix) {
	if m == nil || m.released {
		return
	}
	m.released = true
	m.teardown()
}

// teardown frees m and every released ancestor left without dependents.
func (m *Matrix) teardown() {
	for cur := m; cur != nil && cur.released && !cur.freed && cur.refCnt == 1; {
		parent := cur.parent
		cur.rowData = nil
		cur.flat = nil
		cur.buf.release()
		cur.buf = nil
		cur.parent = nil
		cur.freed = true
		if parent == nil {
			return
		}
		parent.refCnt--
		cur = parent
	}
}

// Get returns m[row][col]. Indices are not checked.
func (m *Matrix) Get(row, col int) float64 {
	return m.rowData[row][col]
}

// Set assigns m[row][col] = v. Indices are not checked.
func (m *Matrix) Set(row, col int, v float64) {
	m.rowData[row][col] = v
}

// Row returns row i as a slice aliasing the storage.
func (m *Matrix) Row(i int) []float64 {
	return m.rowData[i]
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (rows, cols int) { return m.rows, m.cols }

// IsVector reports rows == 1 || cols == 1.
func (m *Matrix) IsVector() bool { return m.isVector }

// IsView reports whether m aliases an ancestor's storage.
func (m *Matrix) IsView() bool { return m.parent != nil }

// IsContiguous reports whether m's rows are adjacent in storage, which
// enables the flat kernel path.
func (m *Matrix) IsContiguous() bool { return m.flat != nil }

// Parent returns the matrix m was sliced from, or nil.
func (m *Matrix) Parent() *Matrix { return m.parent }

// RefCount returns 1 plus the number of live views sliced from m.
func (m *Matrix) RefCount() int { return m.refCnt }

// Released reports whether Release was called on m.
func (m *Matrix) Released() bool { return m.released }

// Freed reports whether m's resources have been dropped.
func (m *Matrix) Freed() bool { return m.freed }

// StorageRefs returns the number of matrices holding m's buffer, or 0
// once the buffer has been dropped.
func (m *Matrix) StorageRefs() int {
	if m.buf == nil {
		return 0
	}
	return m.buf.refs()
}

// sharesStorage reports whether m and o alias the same buffer.
func (m *Matrix) sharesStorage(o *Matrix) bool {
	return m.buf != nil && m.buf == o.buf
}

// swapStorage exchanges the storage of two same-shaped roots in O(1).
// Only engine-internal scratch matrices are ever swapped.
func (m *Matrix) swapStorage(o *Matrix) {
	m.buf, o.buf = o.buf, m.buf
	m.rowData, o.rowData = o.rowData, m.rowData
	m.flat, o.flat = o.flat, m.flat
}

// Clone returns a deep copy of m as a new root.
func (e *Engine) Clone(m *Matrix) (*Matrix, error) {
	if err := checkLive(m); err != nil {
		return nil, matrixErrorf(opCopy, err)
	}
	c, err := e.AllocateRoot(m.rows, m.cols)
	if err != nil {
		return nil, err
	}
	e.copyInto(c, m)
	return c, nil
}

// String renders m row by row for diagnostics.
func (m *Matrix) String() string {
	if m.freed {
		return "[released]"
	}
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[")
		for j, v := range m.rowData[i] {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", v)
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}

// checkLive rejects nil and released operands.
func checkLive(ms ...*Matrix) error {
	for _, m := range ms {
		if m == nil {
			return ErrNilMatrix
		}
		if m.released {
			return ErrReleased
		}
	}
	return nil
}

// sameShape reports whether all matrices share the shape of the first.
func sameShape(first *Matrix, rest ...*Matrix) bool {
	for _, m := range rest {
		if m.rows != first.rows || m.cols != first.cols {
			return false
		}
	}
	return true
}
