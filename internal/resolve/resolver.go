// Package resolve turns textual import specifiers into workspace files and
// import bindings into entity ids, following Nx path aliases and barrel
// re-export chains.
package resolve

import (
	"path"
	"strings"

	"depmap/internal/graph"
	"depmap/internal/scanner"
	"depmap/internal/workspace"
)

// maxReExportDepth caps barrel traversal so cyclic or pathological re-export
// chains terminate; bindings still unresolved at the cap become external.
const maxReExportDepth = 16

type fileInfo struct {
	byName    map[string]*graph.Entity
	exported  []*graph.Entity
	reexports []scanner.ReExport
}

// Resolver resolves imports against the scanned workspace.
type Resolver struct {
	ws    *workspace.Workspace
	files map[string]*fileInfo
}

// New indexes the scan results for resolution.
func New(ws *workspace.Workspace, results []scanner.FileResult) *Resolver {
	r := &Resolver{
		ws:    ws,
		files: make(map[string]*fileInfo, len(results)),
	}

	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		info := &fileInfo{byName: make(map[string]*graph.Entity)}
		for j := range res.Entities {
			e := &res.Entities[j]
			info.byName[e.Name] = e
			if e.Exported {
				info.exported = append(info.exported, e)
			}
		}
		info.reexports = res.ReExports
		r.files[res.File] = info
	}

	return r
}

// Edges resolves every import of every file and emits one edge per consumer
// entity and resolved target. ResolvedFile is stamped on each import as a
// side effect. Unresolvable specifiers and bindings are external and yield
// nothing; side-effect imports yield nothing by design.
func (r *Resolver) Edges(results []scanner.FileResult) []graph.Edge {
	var edges []graph.Edge
	for i := range results {
		res := &results[i]
		if res.Err != nil || len(res.Imports) == 0 {
			continue
		}

		for j := range res.Imports {
			targets := r.resolveImport(&res.Imports[j])
			for _, target := range targets {
				for k := range res.Entities {
					edges = append(edges, graph.Edge{Source: res.Entities[k].ID, Target: target})
				}
			}
		}
	}
	return edges
}

func (r *Resolver) resolveImport(imp *scanner.Import) []string {
	fileID, ok := r.ResolveSpecifier(imp.File, imp.Specifier)
	if !ok {
		return nil
	}
	imp.ResolvedFile = fileID

	if imp.SideEffect {
		return nil
	}

	seen := make(map[string]struct{})
	var targets []string
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}

	for _, b := range imp.Bindings {
		if id, ok := r.lookupExport(fileID, b.Imported, 0, nil); ok {
			add(id)
		}
	}

	if imp.Default != "" {
		if id, ok := r.lookupDefault(fileID); ok {
			add(id)
		}
	}

	if imp.Namespace != "" {
		for _, id := range r.exportSurface(fileID, 0, nil) {
			add(id)
		}
	}

	return targets
}

// ResolveSpecifier maps a module specifier seen in fromFile to a workspace
// file id. Relative specifiers resolve against the importing directory,
// everything else goes through the alias manifest; either way the candidate
// suffixes .ts, .tsx, /index.ts, /index.tsx are tried in order. False means
// the import is external to the workspace.
func (r *Resolver) ResolveSpecifier(fromFile, spec string) (string, bool) {
	if spec == "" {
		return "", false
	}

	if strings.HasPrefix(spec, ".") {
		base := path.Join(path.Dir(fromFile), spec)
		return r.tryCandidates(base)
	}

	for _, target := range r.ws.Aliases.Candidates(spec) {
		target = strings.TrimPrefix(path.Clean(target), "./")
		if id, ok := r.tryCandidates(target); ok {
			return id, true
		}
	}

	return "", false
}

func (r *Resolver) tryCandidates(base string) (string, bool) {
	if strings.HasSuffix(base, ".ts") || strings.HasSuffix(base, ".tsx") {
		if r.ws.Has(base) {
			return base, true
		}
	}
	for _, suffix := range []string{".ts", ".tsx", "/index.ts", "/index.tsx"} {
		if candidate := base + suffix; r.ws.Has(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// lookupExport finds the entity a name resolves to inside fileID, following
// re-export chains until the declaring file is reached.
func (r *Resolver) lookupExport(fileID, name string, depth int, visited map[string]struct{}) (string, bool) {
	if depth > maxReExportDepth {
		return "", false
	}
	key := fileID + "#" + name
	if visited == nil {
		visited = make(map[string]struct{})
	}
	if _, ok := visited[key]; ok {
		return "", false
	}
	visited[key] = struct{}{}

	info, ok := r.files[fileID]
	if !ok {
		return "", false
	}

	if e, ok := info.byName[name]; ok && e.Exported {
		return e.ID, true
	}

	for _, re := range info.reexports {
		if re.Wildcard {
			continue
		}
		for _, n := range re.Names {
			if n.Exported != name {
				continue
			}
			if src, ok := r.ResolveSpecifier(fileID, re.Source); ok {
				if id, ok := r.lookupExport(src, n.Local, depth+1, visited); ok {
					return id, true
				}
			}
		}
	}

	for _, re := range info.reexports {
		if !re.Wildcard {
			continue
		}
		if src, ok := r.ResolveSpecifier(fileID, re.Source); ok {
			if id, ok := r.lookupExport(src, name, depth+1, visited); ok {
				return id, true
			}
		}
	}

	return "", false
}

// lookupDefault maps a default import: the file's "default" entity when
// present, else its sole exported entity.
func (r *Resolver) lookupDefault(fileID string) (string, bool) {
	if id, ok := r.lookupExport(fileID, "default", 0, nil); ok {
		return id, true
	}
	info, ok := r.files[fileID]
	if !ok {
		return "", false
	}
	if len(info.exported) == 1 {
		return info.exported[0].ID, true
	}
	return "", false
}

// exportSurface returns the ids of every entity reachable from fileID's
// export surface: its own exported entities plus, transitively, everything
// its re-exports pull in. Namespace imports depend on all of them.
func (r *Resolver) exportSurface(fileID string, depth int, visited map[string]struct{}) []string {
	if depth > maxReExportDepth {
		return nil
	}
	if visited == nil {
		visited = make(map[string]struct{})
	}
	if _, ok := visited[fileID]; ok {
		return nil
	}
	visited[fileID] = struct{}{}

	info, ok := r.files[fileID]
	if !ok {
		return nil
	}

	var surface []string
	for _, e := range info.exported {
		surface = append(surface, e.ID)
	}

	for _, re := range info.reexports {
		src, ok := r.ResolveSpecifier(fileID, re.Source)
		if !ok {
			continue
		}
		if re.Wildcard {
			surface = append(surface, r.exportSurface(src, depth+1, visited)...)
			continue
		}
		for _, n := range re.Names {
			if id, ok := r.lookupExport(src, n.Local, depth+1, nil); ok {
				surface = append(surface, id)
			}
		}
	}

	return surface
}
