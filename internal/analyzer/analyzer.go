// Package analyzer runs the full pipeline: load the workspace, parse its
// files in parallel, resolve imports, and build the dependency graph.
package analyzer

import (
	"context"
	"fmt"

	"depmap/internal/apperr"
	"depmap/internal/graph"
	"depmap/internal/resolve"
	"depmap/internal/scanner"
	"depmap/internal/workspace"
)

// parseFailureThreshold is the share of failed files above which the run is
// treated as a catastrophic parse failure instead of a best-effort result.
const parseFailureThreshold = 0.25

// Result is the immutable output of an analysis run.
type Result struct {
	Workspace *workspace.Workspace
	Graph     *graph.Graph
	Files     []scanner.FileResult

	// ParseErrors lists files that could not be read or parsed; they were
	// skipped, not fatal.
	ParseErrors []error
}

// Analyze builds the dependency graph for the workspace at root.
func Analyze(ctx context.Context, root string) (*Result, error) {
	ws, err := workspace.Load(root)
	if err != nil {
		return nil, err
	}

	results := scanner.New().ScanAll(ctx, ws)

	var parseErrors []error
	for _, res := range results {
		if res.Err != nil {
			parseErrors = append(parseErrors, res.Err)
		}
	}
	if len(results) > 0 && float64(len(parseErrors)) > parseFailureThreshold*float64(len(results)) {
		return nil, fmt.Errorf("%w: %d of %d files failed to parse",
			apperr.ErrParse, len(parseErrors), len(results))
	}

	resolver := resolve.New(ws, results)
	edges := resolver.Edges(results)

	var entities []graph.Entity
	for _, res := range results {
		entities = append(entities, res.Entities...)
	}

	return &Result{
		Workspace:   ws,
		Graph:       graph.Build(entities, edges),
		Files:       results,
		ParseErrors: parseErrors,
	}, nil
}
