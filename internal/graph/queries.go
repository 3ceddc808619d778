package graph

import (
	"path"
	"sort"
	"strings"
)

// Find returns entities whose name matches exactly. When nothing matches and
// the query is wrapped in quotes, it falls back to a substring match on the
// unquoted text.
func (g *Graph) Find(query string) []*Entity {
	if exact := g.ByName(query); len(exact) > 0 {
		return exact
	}

	quoted := len(query) >= 2 && query[0] == '"' && query[len(query)-1] == '"'
	if !quoted {
		return nil
	}

	needle := query[1 : len(query)-1]
	var matches []*Entity
	for _, e := range g.sorted {
		if strings.Contains(e.Name, needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Unused returns entities no other entity depends on. Components and workers
// are reached by the framework rather than by imports, and bootstrap files
// (main.ts, index.ts) are entry points, so all of those are excluded.
func (g *Graph) Unused() []*Entity {
	var unused []*Entity
	for _, e := range g.sorted {
		if g.InDegree(e.ID) > 0 {
			continue
		}
		if e.Kind == KindComponent || e.Kind == KindWorker {
			continue
		}
		base := path.Base(e.File)
		if base == "main.ts" || base == "index.ts" {
			continue
		}
		unused = append(unused, e)
	}
	return unused
}

// Ranked pairs an entity with the metric it was ranked by.
type Ranked struct {
	Entity *Entity
	Metric int
}

// RankByDeps orders entities by out-degree ascending, optionally restricted
// to the given kinds. Ties break by (name, file).
func (g *Graph) RankByDeps(kinds []Kind) []Ranked {
	var filter map[Kind]struct{}
	if len(kinds) > 0 {
		filter = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			filter[k] = struct{}{}
		}
	}

	var ranked []Ranked
	for _, e := range g.sorted {
		if filter != nil {
			if _, ok := filter[e.Kind]; !ok {
				continue
			}
		}
		ranked = append(ranked, Ranked{Entity: e, Metric: g.OutDegree(e.ID)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metric < ranked[j].Metric
	})
	return ranked
}
