// Package parallel provides scoped data-parallel fan-out for the numc engine.
//
// Every call partitions an index space into disjoint contiguous chunks,
// runs them on short-lived goroutines and joins before returning. There is
// no persistent pool and nothing outlives the call.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of goroutines running at once.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4, // Kernels unroll by 4; never hand out less.
	}
}

// Sequential returns a copy of cfg with parallelism turned off.
func (c Config) Sequential() Config {
	c.Enabled = false
	return c
}

// active reports whether n items are worth splitting under c.
func (c Config) active(n int) bool {
	return c.Enabled && c.NumWorkers > 1 && n >= 2*max(c.MinChunkSize, 1)
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	Range(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// Range splits [0, n) into contiguous chunks and calls f(start, end) once
// per chunk. Chunks never overlap, so f may write its own range freely.
func Range(n int, f func(start, end int), cfg Config) {
	RangeAligned(n, 1, f, cfg)
}

// RangeAligned is Range with every chunk boundary except the last placed on
// a multiple of align. Unrolled kernels use it to keep their scalar tail in
// the final chunk only.
func RangeAligned(n, align int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.active(n) {
		f(0, n)
		return
	}
	align = max(align, 1)

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	chunk = (chunk + align - 1) / align * align

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			f(start, end)
			return nil
		})
	}
	_ = g.Wait() // Workers never fail; Wait is the join point.
}
