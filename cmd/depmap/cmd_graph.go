package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
	"depmap/internal/store"
)

func newGraphCmd() *cobra.Command {
	var entityType string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "graph <path>",
		Short: "Export the dependency graph as D3-compatible JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := graph.ParseKinds(entityType)
			if err != nil {
				return usageErr("%v", err)
			}

			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			if dbPath != "" {
				st, err := store.Open(dbPath)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.SaveGraph(cmd.Context(), result.Graph); err != nil {
					return err
				}
			}

			export := result.Graph.D3(kinds)
			data, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "entity-type", "", "restrict to a comma-separated list of kinds (e.g. class,interface)")
	cmd.Flags().StringVar(&dbPath, "db", "", "also write the snapshot to a SQLite database at this path")

	return cmd
}
