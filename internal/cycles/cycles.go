// Package cycles implements stage 7: detecting strongly connected
// components of size >= 2 in the file dependency graph.
package cycles

import (
	"sort"

	"github.com/Iovva/codeatlas/internal/model"
	"github.com/Iovva/codeatlas/pkg/graph"
)

const maxSampleSize = 5

// Detector finds cyclic dependency groups in a file-level graph.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect runs Tarjan's algorithm over fileGraph and returns one CycleGroup
// per strongly connected component of size >= 2. Group IDs are assigned in
// discovery order starting at 1; each group's sample lists up to
// maxSampleSize member IDs in lexicographic order.
func (d *Detector) Detect(fileGraph model.Graph) []model.CycleGroup {
	g := graph.NewGraph()

	for _, node := range fileGraph.Nodes {
		g.AddNode(node.ID)
	}

	for _, edge := range fileGraph.Edges {
		g.AddEdge(edge.From, edge.To)
	}

	sccs := g.StronglyConnectedComponents()

	groups := make([]model.CycleGroup, 0, len(sccs))

	for i, scc := range sccs {
		sort.Strings(scc)

		sample := scc
		if len(sample) > maxSampleSize {
			sample = sample[:maxSampleSize]
		}

		groups = append(groups, model.CycleGroup{
			ID:     i + 1,
			Size:   len(scc),
			Sample: append([]string(nil), sample...),
		})
	}

	return groups
}
