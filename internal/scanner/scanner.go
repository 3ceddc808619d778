// Package scanner parses TypeScript sources with tree-sitter and extracts
// the per-file entity, import, and re-export records the rest of the
// pipeline runs on.
package scanner

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	"golang.org/x/sync/errgroup"

	"depmap/internal/graph"
	"depmap/internal/workspace"
)

// Binding is one named import: `{ Imported as Local }`.
type Binding struct {
	Imported string
	Local    string
	TypeOnly bool
}

// Import is one import statement (or lazy route import) of a file.
type Import struct {
	File      string
	Specifier string
	Bindings  []Binding
	// Default holds the local name of a default import, Namespace the local
	// name of `import * as ns`. Either may be combined with Bindings.
	Default    string
	Namespace  string
	SideEffect bool
	TypeOnly   bool
	Lazy       bool

	// ResolvedFile is filled in by the resolver; empty means external.
	ResolvedFile string
}

// ReExportName maps a name in the source file (Local) to the name it is
// re-exported under (Exported).
type ReExportName struct {
	Exported string
	Local    string
}

// ReExport is an `export … from '…'` statement. A Wildcard entry re-exports
// the whole surface of Source.
type ReExport struct {
	File     string
	Source   string
	Names    []ReExportName
	Wildcard bool
}

// FileResult is everything extracted from one file. Err marks files that
// could not be read or parsed; extraction is otherwise best-effort.
type FileResult struct {
	File      string
	Class     workspace.FileClass
	Entities  []graph.Entity
	Imports   []Import
	ReExports []ReExport
	Err       error
}

// Scanner parses files in parallel. Each worker owns its tree-sitter parser
// and writes into its own result slot, so the merge needs no locking.
type Scanner struct {
	workers int
}

// New creates a scanner sized to the machine.
func New() *Scanner {
	return &Scanner{workers: runtime.GOMAXPROCS(0)}
}

// ScanAll parses every source and worker file of the workspace. Test files
// are indexed but not parsed. Results come back in workspace file order
// regardless of scheduling, so the merged output is reproducible.
func (s *Scanner) ScanAll(ctx context.Context, ws *workspace.Workspace) []FileResult {
	var files []workspace.File
	for _, f := range ws.Files {
		if f.Class == workspace.ClassTest {
			continue
		}
		files = append(files, f)
	}

	results := make([]FileResult, len(files))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)

	for i, f := range files {
		eg.Go(func() error {
			results[i] = parseFile(f)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func parseFile(f workspace.File) FileResult {
	res := FileResult{File: f.ID, Class: f.Class}

	source, err := os.ReadFile(f.Abs)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", f.ID, err)
		return res
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(languageFor(f.ID)); err != nil {
		res.Err = fmt.Errorf("loading grammar for %s: %w", f.ID, err)
		return res
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		res.Err = fmt.Errorf("parsing %s failed", f.ID)
		return res
	}
	defer tree.Close()

	x := &extractor{
		source: source,
		file:   f.ID,
		worker: f.Class == workspace.ClassWorker,
		result: &res,
	}
	x.run(tree.RootNode())

	return res
}

func languageFor(id string) *tree_sitter.Language {
	if strings.HasSuffix(id, ".tsx") {
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	}
	return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
}
