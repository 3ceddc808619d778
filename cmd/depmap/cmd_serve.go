package main

import (
	"github.com/spf13/cobra"

	"depmap/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <path>",
		Short: "Serve the query engine over MCP (stdio)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			return server.New(result.Graph, result.Workspace).Run(cmd.Context())
		},
	}
}
