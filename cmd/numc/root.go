package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/numc-dev/numc/internal/matrix"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	workers    int
	sequential bool
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&g.workers, "workers", 0, "worker goroutines per kernel (0 = GOMAXPROCS)")
	fs.BoolVar(&g.sequential, "sequential", false, "disable parallel kernels")
}

// engine builds the engine selected by the flags.
func (g *globalFlags) engine() (*matrix.Engine, error) {
	var opts []matrix.Option
	switch {
	case g.workers < 0:
		return nil, fmt.Errorf("--workers must not be negative, got %d", g.workers)
	case g.sequential:
		opts = append(opts, matrix.WithSequential())
	case g.workers > 0:
		opts = append(opts, matrix.WithWorkers(g.workers))
	}
	return matrix.New(opts...), nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "numc",
		Short:         "Dense float64 matrix engine",
		Long:          "numc evaluates and benchmarks dense matrix operations: element-wise arithmetic, multiplication, transpose and integer powers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(root.PersistentFlags())

	root.AddCommand(
		newVersionCmd(),
		newInfoCmd(g),
		newEvalCmd(g),
		newBenchCmd(g),
		newRandCmd(g),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "numc %s\n", version)
		},
	}
}
