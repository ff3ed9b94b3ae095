// Copyright 2025 The numc Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package numc provides dense float64 matrices with zero-copy slicing.
//
// # Overview
//
// Matrix is a checked wrapper over the numc compute engine:
//   - Bounds-checked element access and NumPy-style slicing
//   - Views that share storage with the matrix they were sliced from
//   - Element-wise arithmetic, matrix multiplication and integer powers
//   - Errors carrying a kind (ValueError, IndexError, TypeError, RuntimeError)
//
// # Basic Usage
//
//	a, _ := numc.FromRows([][]float64{{1, 2}, {3, 4}})
//	b, _ := numc.Identity(2)
//	c, _ := a.Mul(b)
//	fmt.Println(c) // [[1, 2], [3, 4]]
//
// # Views
//
// Slice, Row and Col return views. Writing through a view is visible in
// the parent and vice versa:
//
//	m, _ := numc.New(3, 3)
//	v, _ := m.Slice(numc.Span(1, 3), numc.All())
//	_ = v.Set(0, 0, 5) // m.At(1, 0) == 5
//
// # Memory Management
//
// Storage is reference-counted across a matrix and its views. Close gives
// up a handle; the shared storage stays valid while any view is open.
// Matrices that are never closed are reclaimed by the garbage collector.
//
// # Engines
//
// Every matrix is bound to an Engine that decides thresholds and fan-out.
// The package default uses all CPUs; use WithEngine to pick another:
//
//	seq := numc.NewEngine(numc.WithSequential())
//	m, _ := numc.New(512, 512, numc.WithEngine(seq))
package numc
