package graph

import (
	"reflect"
	"testing"
)

func TestCyclesSingleTriangle(t *testing.T) {
	a := entity("A", KindClass, "a.ts")
	b := entity("B", KindClass, "b.ts")
	c := entity("C", KindClass, "c.ts")

	g := Build([]Entity{a, b, c}, []Edge{
		{Source: a.ID, Target: b.ID},
		{Source: b.ID, Target: c.ID},
		{Source: c.ID, Target: a.ID},
	})

	cycles := g.Cycles(100, 10)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly 1 cycle, got %d", len(cycles))
	}
	if got := pathNames(cycles[0]); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("cycle not canonicalized at A: %v", got)
	}
}

func TestCyclesEveryEdgeValid(t *testing.T) {
	a := entity("A", KindClass, "a.ts")
	b := entity("B", KindClass, "b.ts")
	c := entity("C", KindClass, "c.ts")
	d := entity("D", KindClass, "d.ts")

	g := Build([]Entity{a, b, c, d}, []Edge{
		{Source: a.ID, Target: b.ID},
		{Source: b.ID, Target: a.ID},
		{Source: b.ID, Target: c.ID},
		{Source: c.ID, Target: d.ID},
		{Source: d.ID, Target: b.ID},
	})

	cycles := g.Cycles(100, 10)
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(cycles))
	}

	for _, cycle := range cycles {
		for i, e := range cycle {
			next := cycle[(i+1)%len(cycle)]
			if !g.HasEdge(e.ID, next.ID) {
				t.Errorf("reported cycle has missing edge %s -> %s", e.Name, next.Name)
			}
		}
	}
}

func TestCyclesMaxCycles(t *testing.T) {
	a := entity("A", KindClass, "a.ts")
	b := entity("B", KindClass, "b.ts")
	c := entity("C", KindClass, "c.ts")
	d := entity("D", KindClass, "d.ts")

	g := Build([]Entity{a, b, c, d}, []Edge{
		{Source: a.ID, Target: b.ID},
		{Source: b.ID, Target: a.ID},
		{Source: c.ID, Target: d.ID},
		{Source: d.ID, Target: c.ID},
	})

	if cycles := g.Cycles(1, 10); len(cycles) != 1 {
		t.Fatalf("expected enumeration to stop at 1, got %d", len(cycles))
	}
}

func TestCyclesMaxDepthPrunes(t *testing.T) {
	a := entity("A", KindClass, "a.ts")
	b := entity("B", KindClass, "b.ts")
	c := entity("C", KindClass, "c.ts")

	g := Build([]Entity{a, b, c}, []Edge{
		{Source: a.ID, Target: b.ID},
		{Source: b.ID, Target: c.ID},
		{Source: c.ID, Target: a.ID},
	})

	if cycles := g.Cycles(100, 2); len(cycles) != 0 {
		t.Fatalf("expected the 3-cycle to be pruned at depth 2, got %d", len(cycles))
	}
}

func TestCyclesAcyclicGraph(t *testing.T) {
	a := entity("A", KindClass, "a.ts")
	b := entity("B", KindClass, "b.ts")

	g := Build([]Entity{a, b}, []Edge{{Source: a.ID, Target: b.ID}})

	if cycles := g.Cycles(100, 10); len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %d", len(cycles))
	}
}

func TestCyclesTwoVertexCycle(t *testing.T) {
	a := entity("A", KindClass, "a.ts")
	b := entity("B", KindClass, "b.ts")

	g := Build([]Entity{a, b}, []Edge{
		{Source: a.ID, Target: b.ID},
		{Source: b.ID, Target: a.ID},
	})

	cycles := g.Cycles(100, 10)
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(cycles))
	}
	if got := pathNames(cycles[0]); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("got %v", got)
	}
}
