package graph

import "sort"

// Graph is the dependency graph over entities. It is write-once: Build
// assembles it, queries only read. Forward and reverse adjacency are both
// kept so fan-out and fan-in are O(1).
type Graph struct {
	entities map[string]*Entity
	out      map[string]map[string]struct{}
	in       map[string]map[string]struct{}

	sorted []*Entity // by (name, file)
	byName map[string][]*Entity
}

// Build assembles a graph from an entity catalog and raw edges. Edges to or
// from unknown entities are skipped, duplicates collapse, self-loops drop.
func Build(entities []Entity, edges []Edge) *Graph {
	g := &Graph{
		entities: make(map[string]*Entity, len(entities)),
		out:      make(map[string]map[string]struct{}),
		in:       make(map[string]map[string]struct{}),
		byName:   make(map[string][]*Entity),
	}

	for i := range entities {
		e := entities[i]
		if _, ok := g.entities[e.ID]; ok {
			continue
		}
		g.entities[e.ID] = &e
	}

	for _, edge := range edges {
		if edge.Source == edge.Target {
			continue
		}
		if _, ok := g.entities[edge.Source]; !ok {
			continue
		}
		if _, ok := g.entities[edge.Target]; !ok {
			continue
		}
		addEdge(g.out, edge.Source, edge.Target)
		addEdge(g.in, edge.Target, edge.Source)
	}

	for _, e := range g.entities {
		g.sorted = append(g.sorted, e)
		g.byName[e.Name] = append(g.byName[e.Name], e)
	}
	sort.Slice(g.sorted, func(i, j int) bool { return less(g.sorted[i], g.sorted[j]) })
	for _, list := range g.byName {
		sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	}

	return g
}

func addEdge(adj map[string]map[string]struct{}, from, to string) {
	set, ok := adj[from]
	if !ok {
		set = make(map[string]struct{})
		adj[from] = set
	}
	set[to] = struct{}{}
}

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.entities) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, set := range g.out {
		n += len(set)
	}
	return n
}

// Entity looks up an entity by id.
func (g *Graph) Entity(id string) (*Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// Entities returns all entities sorted by (name, file).
func (g *Graph) Entities() []*Entity { return g.sorted }

// ByName returns every entity sharing a declared name, sorted by file.
func (g *Graph) ByName(name string) []*Entity { return g.byName[name] }

// OutDegree is the number of dependencies of an entity.
func (g *Graph) OutDegree(id string) int { return len(g.out[id]) }

// InDegree is the number of consumers of an entity.
func (g *Graph) InDegree(id string) int { return len(g.in[id]) }

// HasEdge reports whether source depends on target.
func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.out[source][target]
	return ok
}

// Dependencies returns the forward neighbors of id sorted by (name, file).
func (g *Graph) Dependencies(id string) []*Entity { return g.neighbors(g.out, id) }

// Consumers returns the reverse neighbors of id sorted by (name, file).
func (g *Graph) Consumers(id string) []*Entity { return g.neighbors(g.in, id) }

func (g *Graph) neighbors(adj map[string]map[string]struct{}, id string) []*Entity {
	set := adj[id]
	if len(set) == 0 {
		return nil
	}
	list := make([]*Entity, 0, len(set))
	for nid := range set {
		list = append(list, g.entities[nid])
	}
	sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}

// SortEntities orders a slice by (name, file) in place and returns it.
func SortEntities(list []*Entity) []*Entity {
	sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}
