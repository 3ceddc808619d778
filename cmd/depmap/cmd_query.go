package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newQueryAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query-all <path>",
		Short: "List every entity in the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range result.Graph.Entities() {
				fmt.Fprintln(out, e.Row())
			}
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <path> <name>",
		Short: "Look up entities by name (quote the name for substring matching)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			matches := result.Graph.Find(args[1])
			if len(matches) == 0 {
				fmt.Fprintf(os.Stderr, "Entity not found: %s\n", args[1])
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range matches {
				fmt.Fprintln(out, e.Row())
			}
			return nil
		},
	}
}
