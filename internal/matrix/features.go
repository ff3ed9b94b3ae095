package matrix

import (
	"runtime"
	"strings"

	"github.com/ajroetker/go-highway/hwy"
	"golang.org/x/sys/cpu"
)

// Features lists the SIMD capabilities of the host CPU.
type Features struct {
	Arch    string
	AVX2    bool
	AVX512F bool
	FMA     bool
	ASIMD   bool // ARM64 Advanced SIMD (NEON)

	// SIMD reports whether highway dispatches to a vector target in this
	// build. Without it the engine runs its scalar kernels.
	SIMD   bool
	Target string // highway dispatch target, e.g. "avx2", "neon", "scalar"
}

// DetectFeatures probes the host CPU.
func DetectFeatures() Features {
	return Features{
		Arch:    runtime.GOARCH,
		AVX2:    cpu.X86.HasAVX2,
		AVX512F: cpu.X86.HasAVX512F,
		FMA:     cpu.X86.HasFMA,
		ASIMD:   cpu.ARM64.HasASIMD,
		SIMD:    hwy.HasSIMD(),
		Target:  hwy.CurrentName(),
	}
}

// Lanes returns the float64 lanes per vector register on this CPU: 8 with
// AVX-512, 4 with AVX2, 2 with NEON, 1 otherwise.
func (f Features) Lanes() int {
	switch {
	case f.AVX512F:
		return 8
	case f.AVX2:
		return 4
	case f.ASIMD:
		return 2
	default:
		return 1
	}
}

// String returns the architecture followed by the detected extensions.
func (f Features) String() string {
	parts := []string{f.Arch}
	if f.AVX2 {
		parts = append(parts, "avx2")
	}
	if f.AVX512F {
		parts = append(parts, "avx512f")
	}
	if f.FMA {
		parts = append(parts, "fma")
	}
	if f.ASIMD {
		parts = append(parts, "asimd")
	}
	if len(parts) == 1 {
		parts = append(parts, "scalar")
	}
	return strings.Join(parts, " ")
}
