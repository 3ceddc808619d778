package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"depmap/internal/analyzer"
	"depmap/internal/apperr"
)

var verbose bool

var warnPrefix = color.New(color.FgYellow).SprintFunc()

func main() {
	root := &cobra.Command{
		Use:           "depmap",
		Short:         "Dependency analyzer for Nx-style TypeScript monorepos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print scan progress and parse warnings to stderr")

	root.AddCommand(newQueryAllCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newUnusedCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newAffectedCmd())
	root.AddCommand(newChainCmd())
	root.AddCommand(newCyclesCmd())
	root.AddCommand(newRankCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperr.ExitCode(err))
	}
}

// analyze runs the pipeline for the workspace path given as the positional
// argument. With --verbose, per-file parse failures are printed as warnings.
func analyze(cmd *cobra.Command, path string) (*analyzer.Result, error) {
	result, err := analyzer.Analyze(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	if verbose {
		for _, perr := range result.ParseErrors {
			fmt.Fprintf(os.Stderr, "%s %v\n", warnPrefix("Warning:"), perr)
		}
		fmt.Fprintf(os.Stderr, "%d files, %d entities, %d edges\n",
			len(result.Workspace.Files), result.Graph.Len(), result.Graph.EdgeCount())
	}

	return result, nil
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrUsage, fmt.Sprintf(format, args...))
}
