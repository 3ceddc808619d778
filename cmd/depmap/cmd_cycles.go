package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
)

func newCyclesCmd() *cobra.Command {
	var maxCycles, maxDepth int

	cmd := &cobra.Command{
		Use:   "cycles <path>",
		Short: "Detect circular dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, cycle := range result.Graph.Cycles(maxCycles, maxDepth) {
				fmt.Fprintln(out, formatCycle(cycle))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxCycles, "max-cycles", 100, "maximum number of cycles to report")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 10, "maximum cycle length in edges")

	return cmd
}

func formatCycle(cycle []*graph.Entity) string {
	names := make([]string, 0, len(cycle)+1)
	for _, e := range cycle {
		names = append(names, e.Name)
	}
	names = append(names, cycle[0].Name)
	return strings.Join(names, " -> ")
}
