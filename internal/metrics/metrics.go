// Package metrics implements stage 6: deriving LOC-independent graph
// metrics (fan-in, fan-out, and the combined top-5 rankings) plus the
// counts block from the file and namespace graphs.
package metrics

import "github.com/Iovva/codeatlas/internal/model"

const topN = 5

// Computer computes the Metrics block from a resolved file graph and its
// lifted namespace graph.
type Computer struct{}

// NewComputer creates a Computer. It holds no state.
func NewComputer() *Computer {
	return &Computer{}
}

// Compute fills FanIn/FanOut on both graphs' nodes in place and returns the
// aggregate Metrics block. fanInTop and fanOutTop are each the 5 highest
// ranked nodes drawn from the union of file and namespace nodes, excluding
// zero-valued nodes, ties broken by the order the nodes are encountered
// (file graph first, then namespace graph, each already lexicographic by ID).
func (c *Computer) Compute(fileGraph, namespaceGraph model.Graph) model.Metrics {
	fanInOut(fileGraph)
	fanInOut(namespaceGraph)

	combined := make([]model.Node, 0, len(fileGraph.Nodes)+len(namespaceGraph.Nodes))
	combined = append(combined, fileGraph.Nodes...)
	combined = append(combined, namespaceGraph.Nodes...)

	return model.Metrics{
		Counts: model.Counts{
			NamespaceNodes: len(namespaceGraph.Nodes),
			FileNodes:      len(fileGraph.Nodes),
			Edges:          len(fileGraph.Edges) + len(namespaceGraph.Edges),
		},
		FanInTop:  topByFanIn(combined),
		FanOutTop: topByFanOut(combined),
	}
}

// fanInOut computes fan-in/fan-out for g's nodes in place from g's own edge
// set. Index assignment is required since g.Nodes is a slice of value types.
func fanInOut(g model.Graph) {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
	}

	for _, e := range g.Edges {
		if i, ok := index[e.From]; ok {
			g.Nodes[i].FanOut++
		}

		if i, ok := index[e.To]; ok {
			g.Nodes[i].FanIn++
		}
	}
}

func topByFanIn(nodes []model.Node) []model.Node {
	return topBy(nodes, func(n model.Node) int { return n.FanIn })
}

func topByFanOut(nodes []model.Node) []model.Node {
	return topBy(nodes, func(n model.Node) int { return n.FanOut })
}

// topBy picks the topN highest-scoring nodes from nodes, excluding
// zero-scored ones, preserving input order as the tiebreak.
func topBy(nodes []model.Node, score func(model.Node) int) []model.Node {
	candidates := make([]model.Node, 0, len(nodes))

	for _, n := range nodes {
		if score(n) > 0 {
			candidates = append(candidates, n)
		}
	}

	top := make([]model.Node, 0, topN)

	for len(top) < topN && len(candidates) > 0 {
		bestIdx := 0

		for i, n := range candidates {
			if score(n) > score(candidates[bestIdx]) {
				bestIdx = i
			}
		}

		top = append(top, candidates[bestIdx])
		candidates = append(candidates[:bestIdx], candidates[bestIdx+1:]...)
	}

	return top
}
