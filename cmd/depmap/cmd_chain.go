package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
)

func newChainCmd() *cobra.Command {
	var start, end string
	var shortest bool
	var maxPaths, maxDepth int

	cmd := &cobra.Command{
		Use:   "chain <path>",
		Short: "Find dependency paths between two named entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			g := result.Graph
			if len(g.ByName(start)) == 0 {
				fmt.Fprintf(os.Stderr, "Entity not found: %s\n", start)
				return nil
			}
			if len(g.ByName(end)) == 0 {
				fmt.Fprintf(os.Stderr, "Entity not found: %s\n", end)
				return nil
			}

			out := cmd.OutOrStdout()
			if shortest {
				if path := g.ShortestChain(start, end, maxDepth); path != nil {
					fmt.Fprintln(out, formatPath(path))
				}
				return nil
			}

			for _, path := range g.Chains(start, end, maxDepth, maxPaths) {
				fmt.Fprintln(out, formatPath(path))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "starting entity name")
	cmd.Flags().StringVar(&end, "end", "", "ending entity name")
	cmd.Flags().BoolVar(&shortest, "shortest", false, "return only the shortest path")
	cmd.Flags().IntVar(&maxPaths, "max-paths", 100, "maximum number of paths to return")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 10, "maximum path length in edges")
	cobra.CheckErr(cmd.MarkFlagRequired("start"))
	cobra.CheckErr(cmd.MarkFlagRequired("end"))

	return cmd
}

func formatPath(path []*graph.Entity) string {
	names := make([]string, len(path))
	for i, e := range path {
		names[i] = e.Name
	}
	return strings.Join(names, " -> ")
}
