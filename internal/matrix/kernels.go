package matrix

import (
	"github.com/ajroetker/go-highway/hwy/contrib/vec"
)

// kernelSet holds the row kernels that have a vectorized implementation.
// Fill, Abs and Copy always use the scalar kernels.
type kernelSet struct {
	name string
	dot  func(x, y []float64) float64
	add  func(dst, a, b []float64)
	sub  func(dst, a, b []float64)
	neg  func(dst, a []float64)
}

var scalarKernels = kernelSet{
	name: "scalar",
	dot:  dotScalar,
	add:  addKernel,
	sub:  subKernel,
	neg:  negKernel,
}

var vectorKernels = kernelSet{
	name: "hwy",
	dot:  vec.Dot[float64],
	add:  vec.AddTo[float64],
	sub:  vec.SubTo[float64],
	neg:  vecNeg,
}

func vecNeg(dst, a []float64) {
	vec.ScaleTo(dst, -1, a)
}

// selectKernels returns the highway kernels when the runtime dispatches to
// a SIMD target and the unrolled scalar kernels otherwise.
func selectKernels(f Features, forceScalar bool) kernelSet {
	if forceScalar || !f.SIMD {
		return scalarKernels
	}
	return vectorKernels
}
