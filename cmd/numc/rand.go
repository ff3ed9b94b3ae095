package main

import (
	"github.com/spf13/cobra"

	"github.com/numc-dev/numc/numc"
)

func newRandCmd(g *globalFlags) *cobra.Command {
	var (
		rows, cols int
		seed       uint64
		low, high  float64
	)
	cmd := &cobra.Command{
		Use:   "rand",
		Short: "Print a reproducible random matrix as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := g.engine()
			if err != nil {
				return err
			}
			m, err := numc.Rand(rows, cols, seed, low, high, numc.WithEngine(e))
			if err != nil {
				return err
			}
			defer m.Close()
			return encodeMatrix(cmd.OutOrStdout(), m.ToRows())
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&rows, "rows", 3, "row count")
	fs.IntVar(&cols, "cols", 3, "column count")
	fs.Uint64Var(&seed, "seed", 1, "random seed")
	fs.Float64Var(&low, "low", 0, "inclusive lower bound")
	fs.Float64Var(&high, "high", 1, "exclusive upper bound")
	return cmd
}
