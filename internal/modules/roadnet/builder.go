// README: Road graph construction; collapses ways between intersections into weighted edges.
package roadnet

import (
	"context"

	"github.com/paulmach/osm"

	"hexride/internal/modules/location"
	"hexride/internal/modules/routing"
)

// Load parses an OSM extract and builds the routable graph, reduced to its
// largest connected component.
func Load(ctx context.Context, path string) (*routing.Graph, error) {
	ex, err := parseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return build(ex), nil
}

// build collapses each way into graph edges spanning intersection to
// intersection. A node is an intersection when it ends a way or is shared by
// more than one way position.
func build(ex *extract) *routing.Graph {
	usage := make(map[osm.NodeID]int)
	for _, way := range ex.ways {
		for i, nid := range way.nodes {
			if i == 0 || i == len(way.nodes)-1 {
				usage[nid] += 2
			} else {
				usage[nid]++
			}
		}
	}

	g := routing.NewGraph()
	graphIDs := make(map[osm.NodeID]int)
	nodeIndex := func(nid osm.NodeID) (int, bool) {
		if idx, ok := graphIDs[nid]; ok {
			return idx, true
		}
		loc, ok := ex.nodeLocs[nid]
		if !ok {
			return 0, false
		}
		idx := g.NumNodes()
		if err := g.AddNode(idx, loc); err != nil {
			return 0, false
		}
		graphIDs[nid] = idx
		return idx, true
	}

	nextEdgeID := 0
	for _, way := range ex.ways {
		segStart := 0
		segMeters := 0.0
		for i := 1; i < len(way.nodes); i++ {
			prev, ok1 := ex.nodeLocs[way.nodes[i-1]]
			cur, ok2 := ex.nodeLocs[way.nodes[i]]
			if !ok1 || !ok2 {
				// Extract is missing a referenced node; restart past the gap.
				segStart = i
				segMeters = 0
				continue
			}
			segMeters += location.Haversine(prev, cur)

			if usage[way.nodes[i]] < 2 && i != len(way.nodes)-1 {
				continue
			}
			from, ok1 := nodeIndex(way.nodes[segStart])
			to, ok2 := nodeIndex(way.nodes[i])
			if ok1 && ok2 && segMeters > 0 {
				weight := segMeters / (way.speedKmh / 3.6)
				addEdges(g, nextEdgeID, from, to, weight, way.oneway)
				nextEdgeID++
			}
			segStart = i
			segMeters = 0
		}
	}

	return g.LargestComponent()
}

// addEdges materializes a collapsed segment. Two-way segments share one edge
// id across both directions so a later update by id hits both.
func addEdges(g *routing.Graph, id, from, to int, weight float64, oneway int) {
	switch oneway {
	case 1:
		g.AddEdge(id, from, to, weight)
	case -1:
		g.AddEdge(id, to, from, weight)
	default:
		g.AddEdge(id, from, to, weight)
		g.AddEdge(id, to, from, weight)
	}
}
