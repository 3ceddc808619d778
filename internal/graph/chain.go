package graph

// Chains enumerates simple paths from any entity named start to any entity
// named end. Paths are bounded by maxDepth edges; enumeration stops after
// maxPaths. Candidates and neighbors are visited in (name, file) order, so
// paths come out in lexicographic order.
func (g *Graph) Chains(start, end string, maxDepth, maxPaths int) [][]*Entity {
	starts := g.ByName(start)
	ends := g.ByName(end)
	if len(starts) == 0 || len(ends) == 0 {
		return nil
	}

	endIDs := make(map[string]struct{}, len(ends))
	for _, e := range ends {
		endIDs[e.ID] = struct{}{}
	}

	var paths [][]*Entity
	onPath := make(map[string]struct{})
	var walk func(cur *Entity, path []*Entity) bool

	walk = func(cur *Entity, path []*Entity) bool {
		if len(paths) >= maxPaths {
			return true
		}
		if _, ok := endIDs[cur.ID]; ok && len(path) > 0 {
			full := make([]*Entity, len(path)+1)
			copy(full, path)
			full[len(path)] = cur
			paths = append(paths, full)
			return len(paths) >= maxPaths
		}
		if len(path) >= maxDepth {
			return false
		}

		onPath[cur.ID] = struct{}{}
		for _, dep := range g.Dependencies(cur.ID) {
			if _, ok := onPath[dep.ID]; ok {
				continue
			}
			if walk(dep, append(path, cur)) {
				delete(onPath, cur.ID)
				return true
			}
		}
		delete(onPath, cur.ID)
		return false
	}

	for _, s := range starts {
		if walk(s, nil) {
			break
		}
	}

	return paths
}

// ShortestChain returns the single shortest path between the named
// endpoints, or nil if none exists within maxDepth. BFS expansion follows
// (name, file) order, so among equal-length paths the lexicographically
// first is returned.
func (g *Graph) ShortestChain(start, end string, maxDepth int) []*Entity {
	starts := g.ByName(start)
	ends := g.ByName(end)
	if len(starts) == 0 || len(ends) == 0 {
		return nil
	}

	endIDs := make(map[string]struct{}, len(ends))
	for _, e := range ends {
		endIDs[e.ID] = struct{}{}
	}

	type item struct {
		entity *Entity
		prev   *item
		depth  int
	}

	visited := make(map[string]struct{}, len(starts))
	var queue []*item
	for _, s := range starts {
		if _, ok := visited[s.ID]; ok {
			continue
		}
		visited[s.ID] = struct{}{}
		queue = append(queue, &item{entity: s})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, ok := endIDs[cur.entity.ID]; ok && cur.depth > 0 {
			var path []*Entity
			for it := cur; it != nil; it = it.prev {
				path = append([]*Entity{it.entity}, path...)
			}
			return path
		}
		if cur.depth >= maxDepth {
			continue
		}

		for _, dep := range g.Dependencies(cur.entity.ID) {
			if _, ok := visited[dep.ID]; ok {
				continue
			}
			visited[dep.ID] = struct{}{}
			queue = append(queue, &item{entity: dep, prev: cur, depth: cur.depth + 1})
		}
	}

	return nil
}
