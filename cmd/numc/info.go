package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show CPU features and the effective engine configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.engine()
			if err != nil {
				return err
			}
			cfg, f := e.Config(), e.Features()
			p := message.NewPrinter(language.English)
			w := cmd.OutOrStdout()

			p.Fprintf(w, "%s\n\n", e.Describe())
			p.Fprintf(w, "cpu:                  %s (%d float64 lanes)\n", f, f.Lanes())
			p.Fprintf(w, "kernels:              %s (target %s)\n", e.Kernels(), f.Target)
			p.Fprintf(w, "workers:              %d\n", cfg.Parallel.NumWorkers)
			p.Fprintf(w, "parallel:             %t\n", cfg.Parallel.Enabled)
			p.Fprintf(w, "elementwise parallel: %d×%d\n", cfg.ElementwiseParallelMin, cfg.ElementwiseParallelMin)
			p.Fprintf(w, "large multiply:       %d\n", cfg.LargeMultiplyMin)
			p.Fprintf(w, "multiply parallel:    %d×%d\n", cfg.MultiplyParallelMin, cfg.MultiplyParallelMin)
			p.Fprintf(w, "transpose parallel:   %d×%d\n", cfg.TransposeParallelMin, cfg.TransposeParallelMin)
			p.Fprintf(w, "block size:           %d\n", cfg.BlockSize)
			p.Fprintf(w, "max elements:         %d\n", cfg.MaxElements)
			return nil
		},
	}
}
