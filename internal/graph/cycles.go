package graph

// Cycles enumerates elementary cycles with Johnson's algorithm, bounded by
// maxCycles (stop after that many) and maxDepth (prune paths longer than
// that many edges). Each cycle is reported once, rotated to start at its
// lexicographically smallest (name, file) entity. Vertices are explored in
// that same order, so output is deterministic.
func (g *Graph) Cycles(maxCycles, maxDepth int) [][]*Entity {
	n := len(g.sorted)
	if n == 0 || maxCycles <= 0 || maxDepth <= 0 {
		return nil
	}

	index := make(map[string]int, n)
	for i, e := range g.sorted {
		index[e.ID] = i
	}
	adj := make([][]int, n)
	for i, e := range g.sorted {
		for _, dep := range g.Dependencies(e.ID) {
			adj[i] = append(adj[i], index[dep.ID])
		}
	}

	var cycles [][]*Entity
	blocked := make([]bool, n)
	blockList := make([][]int, n)
	var stack []int

	record := func() {
		cycle := make([]*Entity, len(stack))
		for i, v := range stack {
			cycle[i] = g.sorted[v]
		}
		cycles = append(cycles, rotateToSmallest(cycle))
	}

	var unblock func(v int)
	unblock = func(v int) {
		blocked[v] = false
		for _, w := range blockList[v] {
			if blocked[w] {
				unblock(w)
			}
		}
		blockList[v] = nil
	}

	for s := 0; s < n && len(cycles) < maxCycles; s++ {
		for i := s; i < n; i++ {
			blocked[i] = false
			blockList[i] = nil
		}

		var circuit func(v int) bool
		circuit = func(v int) bool {
			found := false
			stack = append(stack, v)
			blocked[v] = true

			for _, w := range adj[v] {
				if w < s || len(cycles) >= maxCycles {
					continue
				}
				if w == s {
					if len(stack) <= maxDepth {
						record()
					}
					found = true
				} else if !blocked[w] {
					if len(stack) >= maxDepth {
						// Cut off by the depth bound rather than proven to
						// have no way back to s: leave v unblocked so shorter
						// routes through it are still explored.
						found = true
					} else if circuit(w) {
						found = true
					}
				}
			}

			if found {
				unblock(v)
			} else {
				for _, w := range adj[v] {
					if w < s {
						continue
					}
					blockList[w] = append(blockList[w], v)
				}
			}

			stack = stack[:len(stack)-1]
			return found
		}

		circuit(s)
	}

	return cycles
}

// rotateToSmallest rotates a cycle so its lexicographically smallest entity
// comes first. Johnson already roots cycles at the smallest vertex of its
// subgraph; the rotation keeps the canonical form independent of that.
func rotateToSmallest(cycle []*Entity) []*Entity {
	smallest := 0
	for i := 1; i < len(cycle); i++ {
		if less(cycle[i], cycle[smallest]) {
			smallest = i
		}
	}
	if smallest == 0 {
		return cycle
	}
	rotated := make([]*Entity, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}
