// Package matrix implements the numc dense float64 compute engine.
//
// The engine owns three concerns:
//   - storage: root matrices own a reference-counted buffer, views alias a
//     rectangle of an ancestor through their own row table;
//   - kernels: element-wise maps, transpose, a small i-n-j multiply and a
//     large blocked multiply over a transposed right operand, and integer
//     power by repeated squaring;
//   - fan-out: kernels split disjoint output ranges across goroutines above
//     size thresholds and join before returning.
//
// All operations write into caller-supplied result matrices. Element
// accessors (Get/Set) are unchecked; bounds checking belongs to the caller
// (see package numc). Ownership calls (AllocateRoot, AllocateView, Release)
// must be serialized by the caller for any one ancestor chain.
package matrix

import (
	"fmt"
	"sync"
)

// Engine runs matrix kernels under a fixed Config. An Engine holds no
// mutable state and is safe for concurrent use by kernels on distinct
// result matrices.
type Engine struct {
	cfg      Config
	features Features
	k        kernelSet
}

// New creates an engine from the defaults plus opts.
func New(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	f := DetectFeatures()
	return &Engine{cfg: cfg, features: f, k: selectKernels(f, cfg.ScalarKernels)}
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the process-wide engine built from DefaultConfig.
func Default() *Engine {
	return defaultEngine()
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "CPU"
}

// Config returns a copy of the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Features returns the CPU capabilities detected at construction.
func (e *Engine) Features() Features {
	return e.features
}

// Kernels names the row kernels in use: "hwy" or "scalar".
func (e *Engine) Kernels() string {
	return e.k.name
}

// Describe summarizes the engine for diagnostics.
func (e *Engine) Describe() string {
	p := e.cfg.Parallel
	return fmt.Sprintf("%s engine [%s] workers=%d parallel=%t large-mul>=%d block=%d kernels=%s",
		e.Name(), e.features, p.NumWorkers, p.Enabled, e.cfg.LargeMultiplyMin, e.cfg.BlockSize, e.k.name)
}

// wide reports whether a rows×cols workload crosses threshold n on both axes.
func wide(rows, cols, n int) bool {
	return rows >= n && cols >= n
}
