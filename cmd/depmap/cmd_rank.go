package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
)

func newRankCmd() *cobra.Command {
	var by string
	var entityType string

	cmd := &cobra.Command{
		Use:   "rank <path>",
		Short: "Rank entities by a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "deps" {
				return usageErr("unknown rank metric %q (supported: deps)", by)
			}
			kinds, err := graph.ParseKinds(entityType)
			if err != nil {
				return usageErr("%v", err)
			}

			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range result.Graph.RankByDeps(kinds) {
				fmt.Fprintf(out, "%d\t%s\n", r.Metric, r.Entity.Row())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "deps", "metric to rank by")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "restrict to a comma-separated list of kinds")

	return cmd
}
