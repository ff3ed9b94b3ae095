package matrix

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// buffer is the reference-counted float64 storage shared by a root matrix
// and every view sliced from it. The backing slice is dropped when the
// last holder lets go.
type buffer struct {
	data     []float64
	refCount atomic.Int32
}

// newBuffer allocates a zero-filled buffer of n elements with refCount = 1.
func newBuffer(n int) (*buffer, error) {
	var data []float64
	if err := guardAlloc(func() { data = make([]float64, n) }); err != nil {
		return nil, err
	}
	buf := &buffer{data: data}
	buf.refCount.Store(1)
	return buf, nil
}

// addRef increments the reference count for a new holder.
func (b *buffer) addRef() {
	b.refCount.Add(1)
}

// release decrements the reference count and drops the data at zero.
// It reports whether this call freed the storage.
func (b *buffer) release() bool {
	if b.refCount.Add(-1) == 0 {
		b.data = nil
		return true
	}
	return false
}

// refs returns the current number of holders.
func (b *buffer) refs() int {
	return int(b.refCount.Load())
}

// guardAlloc runs alloc and turns a runtime allocation panic (for example
// makeslice: len out of range) into ErrAllocationFailure.
func guardAlloc(alloc func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %v", ErrAllocationFailure, re)
		}
	}()
	alloc()
	return nil
}
