package graph

// AffectedResult separates the entities whose files changed from the
// consumers reached through the reverse graph.
type AffectedResult struct {
	Seeds     []*Entity
	Consumers []*Entity
}

// All merges seeds and consumers, deduplicated and sorted by (name, file).
func (r *AffectedResult) All() []*Entity {
	seen := make(map[string]struct{}, len(r.Seeds)+len(r.Consumers))
	var all []*Entity
	for _, e := range r.Seeds {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		all = append(all, e)
	}
	for _, e := range r.Consumers {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		all = append(all, e)
	}
	return SortEntities(all)
}

// Affected computes the entities impacted by a set of changed files. Seeds
// are the entities declared in changed files. Without transitive, only the
// direct reverse neighbors of the seeds are added; with it, the full
// reverse-reachable closure.
func (g *Graph) Affected(changedFiles map[string]struct{}, transitive bool) *AffectedResult {
	result := &AffectedResult{}

	seedIDs := make(map[string]struct{})
	for _, e := range g.sorted {
		if _, ok := changedFiles[e.File]; ok {
			result.Seeds = append(result.Seeds, e)
			seedIDs[e.ID] = struct{}{}
		}
	}

	visited := make(map[string]struct{})
	frontier := make([]*Entity, len(result.Seeds))
	copy(frontier, result.Seeds)

	for len(frontier) > 0 {
		var next []*Entity
		for _, e := range frontier {
			for _, consumer := range g.Consumers(e.ID) {
				if _, ok := seedIDs[consumer.ID]; ok {
					continue
				}
				if _, ok := visited[consumer.ID]; ok {
					continue
				}
				visited[consumer.ID] = struct{}{}
				result.Consumers = append(result.Consumers, consumer)
				next = append(next, consumer)
			}
		}
		if !transitive {
			break
		}
		frontier = next
	}

	result.Seeds = SortEntities(result.Seeds)
	result.Consumers = SortEntities(result.Consumers)
	return result
}
