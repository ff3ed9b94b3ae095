package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/numc-dev/numc/numc"
)

type evalOp struct {
	arity int
	run   func(a, b *numc.Matrix, p int) (*numc.Matrix, error)
}

var evalOps = map[string]evalOp{
	"add":       {2, func(a, b *numc.Matrix, _ int) (*numc.Matrix, error) { return a.Add(b) }},
	"sub":       {2, func(a, b *numc.Matrix, _ int) (*numc.Matrix, error) { return a.Sub(b) }},
	"mul":       {2, func(a, b *numc.Matrix, _ int) (*numc.Matrix, error) { return a.Mul(b) }},
	"neg":       {1, func(a, _ *numc.Matrix, _ int) (*numc.Matrix, error) { return a.Neg() }},
	"abs":       {1, func(a, _ *numc.Matrix, _ int) (*numc.Matrix, error) { return a.Abs() }},
	"pow":       {1, func(a, _ *numc.Matrix, p int) (*numc.Matrix, error) { return a.Pow(p) }},
	"transpose": {1, func(a, _ *numc.Matrix, _ int) (*numc.Matrix, error) { return a.T() }},
}

func opNames() string {
	names := lo.Keys(evalOps)
	slices.Sort(names)
	return strings.Join(names, "|")
}

func newEvalCmd(g *globalFlags) *cobra.Command {
	var (
		op    string
		power int
	)
	cmd := &cobra.Command{
		Use:   "eval --op OP A.yaml [B.yaml]",
		Short: "Apply an operation to matrix files and print the result",
		Long: "eval reads one or two matrices (YAML or JSON; '-' is stdin) and prints the result as YAML.\n" +
			"A matrix file is either {rows: [[...], ...]} or a bare 2-D list.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := evalOps[op]
			if !ok {
				return fmt.Errorf("unknown op %q (want %s)", op, opNames())
			}
			if len(args) != entry.arity {
				return fmt.Errorf("op %s takes %d matrix file(s), got %d", op, entry.arity, len(args))
			}
			e, err := g.engine()
			if err != nil {
				return err
			}

			operands := make([]*numc.Matrix, 2)
			for i, path := range args {
				rows, err := readMatrix(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				m, err := numc.FromRows(rows, numc.WithEngine(e))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				defer m.Close()
				operands[i] = m
			}

			res, err := entry.run(operands[0], operands[1], power)
			if err != nil {
				return err
			}
			defer res.Close()
			return encodeMatrix(cmd.OutOrStdout(), res.ToRows())
		},
	}
	cmd.Flags().StringVar(&op, "op", "", "operation: "+opNames())
	cmd.Flags().IntVar(&power, "power", 2, "exponent for --op pow")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}
