package main

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"depmap/internal/graph"
	"depmap/util"
)

var projectPrefixes = map[string]string{
	"web":    "apps/web/",
	"mobile": "apps/mobile/",
	"libs":   "libs/",
}

func newAffectedCmd() *cobra.Command {
	var base string
	var transitive, pathsOnly, testsOnly bool
	var project string

	cmd := &cobra.Command{
		Use:   "affected <path>",
		Short: "List entities affected by changes against a git base reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pathsOnly && testsOnly {
				return usageErr("--paths and --tests are mutually exclusive")
			}
			var prefix string
			if project != "" {
				p, ok := projectPrefixes[project]
				if !ok {
					return usageErr("unknown project %q (web, mobile, or libs)", project)
				}
				prefix = p
			}

			result, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}

			changed, err := util.ChangedFiles(cmd.Context(), result.Workspace.Root, base)
			if err != nil {
				return err
			}

			changedSet := make(map[string]struct{}, len(changed))
			for _, cf := range changed {
				changedSet[cf.Path] = struct{}{}
			}

			affected := result.Graph.Affected(changedSet, transitive)
			entities := affected.All()
			if prefix != "" {
				entities = filterByPrefix(entities, prefix)
			}

			out := cmd.OutOrStdout()
			switch {
			case testsOnly:
				tests := make(map[string]struct{})
				for _, e := range entities {
					for _, t := range result.Workspace.TestSiblings(e.File) {
						tests[t] = struct{}{}
					}
				}
				// Test files touched by the diff itself are affected too.
				for _, cf := range changed {
					if isTestFile(cf.Path) && result.Workspace.Has(cf.Path) {
						tests[cf.Path] = struct{}{}
					}
				}
				for _, t := range sortedKeys(tests) {
					fmt.Fprintln(out, t)
				}
			case pathsOnly:
				dirs := make(map[string]struct{})
				for _, e := range entities {
					dirs[path.Dir(e.File)] = struct{}{}
				}
				for _, d := range sortedKeys(dirs) {
					fmt.Fprintln(out, d)
				}
			default:
				for _, e := range entities {
					fmt.Fprintln(out, e.Row())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "git reference to compare against (branch, tag, or commit)")
	cmd.Flags().BoolVar(&transitive, "transitive", false, "include transitive consumers")
	cmd.Flags().BoolVar(&pathsOnly, "paths", false, "output unique directory paths instead of entities")
	cmd.Flags().BoolVar(&testsOnly, "tests", false, "output test files related to affected entities")
	cmd.Flags().StringVar(&project, "project", "", "restrict to a project area: web, mobile, or libs")
	cobra.CheckErr(cmd.MarkFlagRequired("base"))

	return cmd
}

func filterByPrefix(entities []*graph.Entity, prefix string) []*graph.Entity {
	var kept []*graph.Entity
	for _, e := range entities {
		if strings.HasPrefix(e.File, prefix) {
			kept = append(kept, e)
		}
	}
	return kept
}

func isTestFile(p string) bool {
	return strings.HasSuffix(p, ".spec.ts") || strings.HasSuffix(p, ".test.ts")
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
