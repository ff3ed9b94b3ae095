package main

import (
	"fmt"
	"io"
	"math/bits"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/numc-dev/numc/internal/matrix"
)

type benchCase struct {
	name  string
	flops float64
	run   func() error
}

func newBenchCmd(g *globalFlags) *cobra.Command {
	var size, power, repeat int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time multiply, power and add on random square matrices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size <= 0 || power < 0 || repeat <= 0 {
				return fmt.Errorf("--size and --repeat must be positive and --power non-negative")
			}
			e, err := g.engine()
			if err != nil {
				return err
			}
			return runBench(cmd.OutOrStdout(), e, size, power, repeat)
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&size, "size", 256, "matrix dimension n (n×n operands)")
	fs.IntVar(&power, "power", 8, "exponent for the power benchmark")
	fs.IntVar(&repeat, "repeat", 3, "runs per case; the fastest is reported")
	return cmd
}

func runBench(w io.Writer, e *matrix.Engine, n, power, repeat int) error {
	var roots []*matrix.Matrix
	defer func() {
		for _, m := range roots {
			e.Release(m)
		}
	}()
	alloc := func() (*matrix.Matrix, error) {
		m, err := e.AllocateRoot(n, n)
		if err == nil {
			roots = append(roots, m)
		}
		return m, err
	}

	a, err := alloc()
	if err != nil {
		return err
	}
	b, err := alloc()
	if err != nil {
		return err
	}
	res, err := alloc()
	if err != nil {
		return err
	}
	if err := e.RandomFill(a, 1, -1, 1); err != nil {
		return err
	}
	if err := e.RandomFill(b, 2, -1, 1); err != nil {
		return err
	}

	nf := float64(n)
	mulFlops := 2 * nf * nf * nf
	cases := []benchCase{
		{"multiply/small", mulFlops, func() error { return e.MultiplySmall(res, a, b) }},
		{"multiply/large", mulFlops, func() error { return e.MultiplyLarge(res, a, b) }},
		{fmt.Sprintf("power/%d", power), float64(powerProducts(power)) * mulFlops, func() error { return e.Power(res, a, power) }},
		{"add", nf * nf, func() error { return e.Add(res, a, b) }},
		{"transpose", 0, func() error { return e.TransposeInto(res, a) }},
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s\nsize %d×%d, best of %d\n\n", e.Describe(), n, n, repeat)
	for _, c := range cases {
		best := time.Duration(1<<63 - 1)
		for range repeat {
			start := time.Now()
			if err := c.run(); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			best = min(best, time.Since(start))
		}
		p.Fprintf(w, "%-16s %12v", c.name, best.Round(time.Microsecond))
		if c.flops > 0 && best > 0 {
			p.Fprintf(w, "  %10.2f GFLOP/s", c.flops/best.Seconds()/1e9)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// powerProducts returns the number of n×n products Power performs for p.
func powerProducts(p int) int {
	switch {
	case p < 2:
		return 0
	case p == 2:
		return 1
	}
	u := uint(p)
	return bits.Len(u) - 1 + bits.OnesCount(u) - 1
}
