// README: Routing engine; coordinate-indexed lookups, route costs, edge re-weighting.
package routing

import (
	"math"

	"hexride/internal/modules/location"
	"hexride/internal/types"
)

// edgeTieEpsilon bounds the second-pass tie scan of the nearest-edge search.
// The two directions of a two-way road share geometry, so they tie exactly;
// the epsilon only guards against float noise from the projection.
const edgeTieEpsilon = 1e-6

// Engine wraps a Graph with coordinate-level queries. Reads (Route and the
// nearest-* scans) must not run concurrently with the UpdateEdge* mutators;
// callers needing hot updates during matching serialize externally.
type Engine struct {
	graph *Graph
}

func NewEngine(g *Graph) *Engine {
	return &Engine{graph: g}
}

// Graph exposes the underlying graph for inspection.
func (e *Engine) Graph() *Graph { return e.graph }

// Route returns the shortest travel cost between the graph nodes nearest to
// from and to. It returns -1 when the graph is empty and +Inf when the
// endpoints are disconnected.
func (e *Engine) Route(from, to types.Point) float64 {
	start := e.nearestNode(from)
	goal := e.nearestNode(to)
	if start < 0 || goal < 0 {
		return -1
	}
	return ShortestPath(e.graph, start, goal).TotalCost
}

// UpdateEdgeByID re-weights every directed edge carrying id. Unknown ids are
// silently ignored.
func (e *Engine) UpdateEdgeByID(id int, weight float64) {
	e.graph.UpdateEdgeWeight(id, weight)
}

// UpdateEdgeByNodes re-weights only the first directed edge from -> to,
// leaving the reverse direction untouched.
func (e *Engine) UpdateEdgeByNodes(from, to int, weight float64) {
	for i := range e.graph.edges {
		if e.graph.edges[i].From == from && e.graph.edges[i].To == to {
			e.graph.edges[i].Weight = weight
			return
		}
	}
}

// UpdateEdgeNear re-weights every edge tied for minimum perpendicular
// distance to p, optionally filtered by compass direction. Updating all ties
// is what lets a caller hit both directions of a two-way road with one
// coordinate.
func (e *Engine) UpdateEdgeNear(p types.Point, weight float64, dir Direction) {
	for _, idx := range e.nearestEdges(p, dir) {
		e.graph.edges[idx].Weight = weight
	}
}

func (e *Engine) nearestNode(p types.Point) int {
	best := math.Inf(1)
	bestIdx := -1
	for i := range e.graph.nodes {
		d := location.Haversine(p, e.graph.nodes[i].Loc)
		if d < best {
			best = d
			bestIdx = i
		}
	}
	return bestIdx
}

// nearestEdges returns the storage indices of all direction-matching edges
// within edgeTieEpsilon of the minimum point-to-segment distance.
func (e *Engine) nearestEdges(p types.Point, dir Direction) []int {
	dists := make([]float64, len(e.graph.edges))
	best := math.Inf(1)
	for i := range e.graph.edges {
		dists[i] = math.Inf(1)
		edge := e.graph.edges[i]
		fromLoc := e.graph.nodes[edge.From].Loc
		toLoc := e.graph.nodes[edge.To].Loc
		if !dir.matches(toLoc.Lat-fromLoc.Lat, toLoc.Lng-fromLoc.Lng) {
			continue
		}
		d := location.PointToSegmentMeters(p, fromLoc, toLoc)
		dists[i] = d
		if d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return nil
	}

	var ties []int
	for i, d := range dists {
		if d-best <= edgeTieEpsilon {
			ties = append(ties, i)
		}
	}
	return ties
}
