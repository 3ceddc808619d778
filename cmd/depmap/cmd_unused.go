package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUnusedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unused <path>",
		Short: "List entities nothing depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range result.Graph.Unused() {
				fmt.Fprintln(out, e.Row())
			}
			return nil
		},
	}
}
