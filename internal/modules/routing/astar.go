// README: A* shortest-path search over the road graph.
package routing

import (
	"container/heap"
	"math"

	"hexride/internal/modules/location"
)

// heuristicMaxSpeedMPS converts the great-circle heuristic from meters into
// seconds. 130 km/h is an upper bound on road speed, so the time estimate
// never exceeds the true remaining cost and the heuristic stays admissible.
const heuristicMaxSpeedMPS = 130.0 / 3.6

// Path is the result of a shortest-path query. An unreachable goal yields an
// empty Nodes slice and TotalCost = +Inf.
type Path struct {
	Nodes     []int
	TotalCost float64
}

type pqItem struct {
	node  int
	fCost float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].fCost < pq[j].fCost }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	item := old[len(old)-1]
	*pq = old[:len(old)-1]
	return item
}

func heuristic(a, b Node) float64 {
	return location.Haversine(a.Loc, b.Loc) / heuristicMaxSpeedMPS
}

// ShortestPath runs A* from start to goal over g. Popped nodes are final;
// stale duplicates left on the queue are skipped by the closed check. Parent
// pointers move only on strict improvement, so ties resolve by insertion
// order.
func ShortestPath(g *Graph, start, goal int) Path {
	n := g.NumNodes()

	gCost := make([]float64, n)
	parent := make([]int, n)
	closed := make([]bool, n)
	for i := range gCost {
		gCost[i] = math.Inf(1)
		parent[i] = -1
	}
	gCost[start] = 0

	goalNode := g.Node(goal)

	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, pqItem{node: start, fCost: heuristic(g.Node(start), goalNode)})

	for open.Len() > 0 {
		current := heap.Pop(open).(pqItem)
		if closed[current.node] {
			continue
		}
		closed[current.node] = true
		if current.node == goal {
			break
		}

		for _, e := range g.nodes[current.node].out {
			edge := g.edges[e]
			if closed[edge.To] {
				continue
			}
			tentative := gCost[current.node] + edge.Weight
			if tentative < gCost[edge.To] {
				gCost[edge.To] = tentative
				parent[edge.To] = current.node
				heap.Push(open, pqItem{
					node:  edge.To,
					fCost: tentative + heuristic(g.Node(edge.To), goalNode),
				})
			}
		}
	}

	if math.IsInf(gCost[goal], 1) {
		return Path{TotalCost: math.Inf(1)}
	}

	var nodes []int
	for curr := goal; curr != -1; curr = parent[curr] {
		nodes = append(nodes, curr)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return Path{Nodes: nodes, TotalCost: gCost[goal]}
}
