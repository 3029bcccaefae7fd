// README: Graph tests (dense ids, shared-id re-weighting, component filter).
package routing

import (
	"testing"

	"hexride/internal/types"
)

func pt(lat, lng float64) types.Point { return types.Point{Lat: lat, Lng: lng} }

func TestAddNodeDenseIDs(t *testing.T) {
	g := NewGraph()
	if err := g.AddNode(0, pt(40.70, -74.00)); err != nil {
		t.Fatalf("add node 0: %v", err)
	}
	if err := g.AddNode(2, pt(40.71, -74.00)); err != ErrOutOfRange {
		t.Fatalf("non-dense id error = %v, want ErrOutOfRange", err)
	}
	if err := g.AddNode(1, pt(40.71, -74.00)); err != nil {
		t.Fatalf("add node 1: %v", err)
	}
	if g.NumNodes() != 2 {
		t.Fatalf("NumNodes = %d, want 2", g.NumNodes())
	}
}

func TestAddEdgeRangeCheck(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, pt(40.70, -74.00))
	g.AddNode(1, pt(40.71, -74.00))

	if err := g.AddEdge(0, 0, 1, 5); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := g.AddEdge(1, 0, 9, 5); err != ErrOutOfRange {
		t.Fatalf("bad target error = %v, want ErrOutOfRange", err)
	}
	if err := g.AddEdge(1, -1, 1, 5); err != ErrOutOfRange {
		t.Fatalf("bad source error = %v, want ErrOutOfRange", err)
	}
}

func TestUpdateEdgeWeightSharedID(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, pt(40.70, -74.00))
	g.AddNode(1, pt(40.71, -74.00))
	g.AddEdge(7, 0, 1, 10)
	g.AddEdge(7, 1, 0, 10)
	g.AddEdge(8, 0, 1, 20)

	g.UpdateEdgeWeight(7, 99)

	if w := g.Edge(0).Weight; w != 99 {
		t.Fatalf("forward weight = %f, want 99", w)
	}
	if w := g.Edge(1).Weight; w != 99 {
		t.Fatalf("reverse weight = %f, want 99", w)
	}
	if w := g.Edge(2).Weight; w != 20 {
		t.Fatalf("unrelated edge weight = %f, want 20", w)
	}

	// Unknown id must not panic or touch anything.
	g.UpdateEdgeWeight(1234, 1)
}

func TestNeighborsSeesUpdatedWeights(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, pt(40.70, -74.00))
	g.AddNode(1, pt(40.71, -74.00))
	g.AddEdge(0, 0, 1, 10)

	g.UpdateEdgeWeight(0, 42)

	ns := g.Neighbors(0)
	if len(ns) != 1 || ns[0].To != 1 || ns[0].Weight != 42 {
		t.Fatalf("Neighbors(0) = %+v, want [{1 42}]", ns)
	}
}

func TestLargestComponent(t *testing.T) {
	g := NewGraph()
	// Component A: nodes 0-2 in a line with a two-way pair sharing id 0.
	g.AddNode(0, pt(40.70, -74.00))
	g.AddNode(1, pt(40.71, -74.00))
	g.AddNode(2, pt(40.72, -74.00))
	g.AddEdge(0, 0, 1, 10)
	g.AddEdge(0, 1, 0, 10)
	g.AddEdge(1, 1, 2, 10)
	// Component B: isolated pair.
	g.AddNode(3, pt(41.00, -75.00))
	g.AddNode(4, pt(41.01, -75.00))
	g.AddEdge(2, 3, 4, 10)

	filtered := g.LargestComponent()

	if filtered.NumNodes() != 3 {
		t.Fatalf("component nodes = %d, want 3", filtered.NumNodes())
	}
	if filtered.NumEdges() != 3 {
		t.Fatalf("component edges = %d, want 3", filtered.NumEdges())
	}

	// The surviving two-way pair must still share an edge id.
	idCount := make(map[int]int)
	for i := 0; i < filtered.NumEdges(); i++ {
		idCount[filtered.Edge(i).ID]++
	}
	shared := 0
	for _, c := range idCount {
		if c == 2 {
			shared++
		}
	}
	if shared != 1 {
		t.Fatalf("shared-id pairs = %d, want 1 (ids: %v)", shared, idCount)
	}
}

func TestLargestComponentEmptyGraph(t *testing.T) {
	g := NewGraph()
	filtered := g.LargestComponent()
	if filtered.NumNodes() != 0 || filtered.NumEdges() != 0 {
		t.Fatalf("empty graph component = %d nodes %d edges", filtered.NumNodes(), filtered.NumEdges())
	}
}
