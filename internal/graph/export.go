package graph

// D3Node is one node of the D3-compatible graph export.
type D3Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
}

// D3Link is one edge of the D3-compatible graph export.
type D3Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// D3Graph is the JSON shape emitted by the graph command.
type D3Graph struct {
	Nodes []D3Node `json:"nodes"`
	Links []D3Link `json:"links"`
}

// D3 exports the graph, optionally restricted to the given kinds. When a
// filter is set, links are kept only between surviving nodes. Nodes come out
// sorted by (name, file) and links by (source, target) of the sorted order.
func (g *Graph) D3(kinds []Kind) *D3Graph {
	keep := func(e *Entity) bool { return true }
	if len(kinds) > 0 {
		set := make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			set[k] = struct{}{}
		}
		keep = func(e *Entity) bool {
			_, ok := set[e.Kind]
			return ok
		}
	}

	export := &D3Graph{Nodes: []D3Node{}, Links: []D3Link{}}
	kept := make(map[string]struct{})
	for _, e := range g.sorted {
		if !keep(e) {
			continue
		}
		kept[e.ID] = struct{}{}
		export.Nodes = append(export.Nodes, D3Node{
			ID:   e.ID,
			Name: e.Name,
			Kind: string(e.Kind),
			File: e.File,
		})
	}

	for _, source := range g.sorted {
		if _, ok := kept[source.ID]; !ok {
			continue
		}
		for _, target := range g.Dependencies(source.ID) {
			if _, ok := kept[target.ID]; !ok {
				continue
			}
			export.Links = append(export.Links, D3Link{Source: source.ID, Target: target.ID})
		}
	}

	return export
}
