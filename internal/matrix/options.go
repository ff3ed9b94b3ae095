package matrix

import "github.com/numc-dev/numc/internal/parallel"

// Defaults. Thresholds are tuning knobs only: every kernel produces the
// same output whichever side of a threshold it runs on.
const (
	// DefaultElementwiseParallelMin gates parallel element-wise kernels and
	// row-table construction on rows >= n && cols >= n.
	DefaultElementwiseParallelMin = 350

	// DefaultLargeMultiplyMin selects the transposed kernel when
	// a.rows >= n || b.cols >= n.
	DefaultLargeMultiplyMin = 350

	// DefaultMultiplyParallelMin gates row-parallel large multiply on
	// a.rows >= n && a.cols >= n.
	DefaultMultiplyParallelMin = 500

	// DefaultTransposeParallelMin gates parallel transpose on rows >= n && cols >= n.
	DefaultTransposeParallelMin = 100

	// DefaultBlockSize is the number of transposed right-operand rows the
	// large multiply keeps hot while sweeping a range of output rows.
	DefaultBlockSize = 64

	// DefaultMaxElements caps a single buffer (1<<34 float64 = 128 GiB).
	DefaultMaxElements = 1 << 34
)

const (
	panicThresholdInvalid = "matrix: threshold must be positive"
	panicBlockInvalid     = "matrix: block size must be positive"
	panicMaxInvalid       = "matrix: max elements must be positive"
	panicWorkersInvalid   = "matrix: worker count must be positive"
)

// Config is the effective engine configuration.
type Config struct {
	ElementwiseParallelMin int
	LargeMultiplyMin       int
	MultiplyParallelMin    int
	TransposeParallelMin   int
	BlockSize              int
	MaxElements            int
	ScalarKernels          bool
	Parallel               parallel.Config
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ElementwiseParallelMin: DefaultElementwiseParallelMin,
		LargeMultiplyMin:       DefaultLargeMultiplyMin,
		MultiplyParallelMin:    DefaultMultiplyParallelMin,
		TransposeParallelMin:   DefaultTransposeParallelMin,
		BlockSize:              DefaultBlockSize,
		MaxElements:            DefaultMaxElements,
		Parallel:               parallel.DefaultConfig(),
	}
}

// Option mutates a Config. Constructors panic on nonsensical values
// (programmer error), never on data.
type Option func(*Config)

// WithElementwiseThreshold sets the square size from which element-wise
// kernels and row-table construction fan out.
func WithElementwiseThreshold(n int) Option {
	mustPositive(n, panicThresholdInvalid)
	return func(c *Config) { c.ElementwiseParallelMin = n }
}

// WithLargeMultiplyThreshold sets the size from which Multiply uses the
// transposed blocked kernel.
func WithLargeMultiplyThreshold(n int) Option {
	mustPositive(n, panicThresholdInvalid)
	return func(c *Config) { c.LargeMultiplyMin = n }
}

// WithMultiplyParallelThreshold sets the size from which the large
// multiply splits output rows across workers.
func WithMultiplyParallelThreshold(n int) Option {
	mustPositive(n, panicThresholdInvalid)
	return func(c *Config) { c.MultiplyParallelMin = n }
}

// WithTransposeThreshold sets the size from which Transpose fans out.
func WithTransposeThreshold(n int) Option {
	mustPositive(n, panicThresholdInvalid)
	return func(c *Config) { c.TransposeParallelMin = n }
}

// WithBlockSize sets the large-multiply cache block (rows of bᵀ).
func WithBlockSize(n int) Option {
	mustPositive(n, panicBlockInvalid)
	return func(c *Config) { c.BlockSize = n }
}

// WithMaxElements caps the element count of any single allocation.
// Requests above the cap fail with ErrAllocationFailure.
func WithMaxElements(n int) Option {
	mustPositive(n, panicMaxInvalid)
	return func(c *Config) { c.MaxElements = n }
}

// WithParallel replaces the fan-out configuration wholesale.
func WithParallel(p parallel.Config) Option {
	return func(c *Config) { c.Parallel = p }
}

// WithWorkers sets the worker count and enables fan-out when n > 1.
func WithWorkers(n int) Option {
	mustPositive(n, panicWorkersInvalid)
	return func(c *Config) {
		c.Parallel.NumWorkers = n
		c.Parallel.Enabled = n > 1
	}
}

// WithScalarKernels keeps the engine on its scalar kernels even when a
// SIMD target is available.
func WithScalarKernels() Option {
	return func(c *Config) { c.ScalarKernels = true }
}

// WithSequential disables all fan-out.
func WithSequential() Option {
	return func(c *Config) { c.Parallel = c.Parallel.Sequential() }
}

func mustPositive(n int, msg string) {
	if n <= 0 {
		panic(msg)
	}
}
