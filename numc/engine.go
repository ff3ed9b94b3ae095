// Copyright 2025 The numc Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numc

import (
	"github.com/numc-dev/numc/internal/matrix"
)

// Type aliases for public API

// Engine runs matrix kernels under a fixed configuration.
type Engine = matrix.Engine

// Config is the effective engine configuration.
type Config = matrix.Config

// Features lists the SIMD capabilities of the host CPU.
type Features = matrix.Features

// EngineOption configures an Engine.
type EngineOption = matrix.Option

// Engine options.
var (
	WithElementwiseThreshold      = matrix.WithElementwiseThreshold
	WithLargeMultiplyThreshold    = matrix.WithLargeMultiplyThreshold
	WithMultiplyParallelThreshold = matrix.WithMultiplyParallelThreshold
	WithTransposeThreshold        = matrix.WithTransposeThreshold
	WithBlockSize                 = matrix.WithBlockSize
	WithMaxElements               = matrix.WithMaxElements
	WithWorkers                   = matrix.WithWorkers
	WithSequential                = matrix.WithSequential
	WithScalarKernels             = matrix.WithScalarKernels
)

// NewEngine creates an engine from the defaults plus opts.
func NewEngine(opts ...EngineOption) *Engine {
	return matrix.New(opts...)
}

// DefaultEngine returns the engine used when no WithEngine option is given.
func DefaultEngine() *Engine {
	return matrix.Default()
}

// Option configures matrix construction.
type Option func(*options)

type options struct {
	engine *Engine
}

// WithEngine binds the new matrix, and everything derived from it, to e.
func WithEngine(e *Engine) Option {
	return func(o *options) { o.engine = e }
}

func resolveOptions(opts []Option) options {
	o := options{engine: matrix.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = matrix.Default()
	}
	return o
}
