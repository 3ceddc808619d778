// Package workspace walks an Nx-style monorepo, classifies its TypeScript
// sources, and loads the path-alias manifest from the workspace tsconfig.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"depmap/internal/apperr"
)

// FileClass tells the pipeline how to treat a file.
type FileClass int

const (
	// ClassSource files are parsed and contribute entities.
	ClassSource FileClass = iota
	// ClassTest files (*.spec.ts, *.test.ts) are indexed for affected --tests
	// but not parsed.
	ClassTest
	// ClassWorker files (*.worker.ts) are parsed; their entities get the
	// worker kind.
	ClassWorker
)

// File is one TypeScript source in the workspace. ID is the slash-separated
// path relative to the workspace root and keys all per-file tables.
type File struct {
	ID    string
	Abs   string
	Class FileClass
}

// Workspace is the loaded file index plus the alias manifest.
type Workspace struct {
	Root    string
	Files   []File
	Aliases *AliasManifest

	index map[string]*File
}

// Directories that never hold analyzable sources: package output, build
// output, VCS metadata, and the mock/fixture trees Nx projects carry.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	"dist":         {},
	"coverage":     {},
	"tmp":          {},
	".git":         {},
	".nx":          {},
	".angular":     {},
	"__mocks__":    {},
	"mocks":        {},
	"environments": {},
	"i18n":         {},
}

var skipSuffixes = []string{".d.ts", ".stories.ts"}

// Load walks root and builds the workspace index. Symlinked directories are
// followed once; filesystem cycles are broken by a visited set of resolved
// paths.
func Load(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %q: %v", apperr.ErrWorkspace, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrWorkspace, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", apperr.ErrWorkspace, root)
	}

	aliases, err := LoadAliases(abs)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Root:    abs,
		Aliases: aliases,
		index:   make(map[string]*File),
	}

	var ign *ignore.GitIgnore
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore")); err == nil {
		ign = gi
	}

	visited := make(map[string]struct{})
	if err := ws.walk(abs, ign, visited); err != nil {
		return nil, err
	}

	sort.Slice(ws.Files, func(i, j int) bool { return ws.Files[i].ID < ws.Files[j].ID })
	for i := range ws.Files {
		ws.index[ws.Files[i].ID] = &ws.Files[i]
	}

	return ws, nil
}

func (w *Workspace) walk(dir string, ign *ignore.GitIgnore, visited map[string]struct{}) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil
	}
	if _, ok := visited[resolved]; ok {
		return nil
	}
	visited[resolved] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == w.Root {
			return fmt.Errorf("%w: %v", apperr.ErrWorkspace, err)
		}
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		rel, err := filepath.Rel(w.Root, full)
		if err != nil {
			continue
		}
		id := filepath.ToSlash(rel)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(full); err == nil {
				isDir = info.IsDir()
			}
		}

		if isDir {
			if _, skip := skipDirs[name]; skip {
				continue
			}
			if ign != nil && ign.MatchesPath(id+"/") {
				continue
			}
			if err := w.walk(full, ign, visited); err != nil {
				return err
			}
			continue
		}

		if !strings.HasSuffix(name, ".ts") && !strings.HasSuffix(name, ".tsx") {
			continue
		}
		if skipFile(name) {
			continue
		}
		if ign != nil && ign.MatchesPath(id) {
			continue
		}

		w.Files = append(w.Files, File{ID: id, Abs: full, Class: classify(name)})
	}

	return nil
}

func skipFile(name string) bool {
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func classify(name string) FileClass {
	switch {
	case strings.HasSuffix(name, ".spec.ts") || strings.HasSuffix(name, ".test.ts"):
		return ClassTest
	case strings.HasSuffix(name, ".worker.ts"):
		return ClassWorker
	default:
		return ClassSource
	}
}

// File looks up a file by its workspace-relative id.
func (w *Workspace) File(id string) (*File, bool) {
	f, ok := w.index[id]
	return f, ok
}

// Has reports whether id is part of the workspace index.
func (w *Workspace) Has(id string) bool {
	_, ok := w.index[id]
	return ok
}

// TestSiblings returns the indexed test files sitting next to id: the same
// path with its extension swapped for .spec.ts or .test.ts.
func (w *Workspace) TestSiblings(id string) []string {
	base := strings.TrimSuffix(strings.TrimSuffix(id, ".tsx"), ".ts")
	var siblings []string
	for _, suffix := range []string{".spec.ts", ".test.ts"} {
		if w.Has(base + suffix) {
			siblings = append(siblings, base+suffix)
		}
	}
	return siblings
}
