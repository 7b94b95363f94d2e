package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedComponents(sccs [][]string) [][]string {
	out := make([][]string, len(sccs))
	for i, scc := range sccs {
		cp := append([]string(nil), scc...)
		sort.Strings(cp)
		out[i] = cp
	}

	sort.Slice(out, func(i, j int) bool {
		return len(out[i]) > 0 && len(out[j]) > 0 && out[i][0] < out[j][0]
	})

	return out
}

func TestStronglyConnectedComponents_SimpleCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	sccs := sortedComponents(g.StronglyConnectedComponents())
	assert.Equal(t, [][]string{{"a", "b", "c"}}, sccs)
}

func TestStronglyConnectedComponents_Acyclic(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	assert.Empty(t, g.StronglyConnectedComponents())
}

func TestStronglyConnectedComponents_MultipleGroups(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("x", "y")
	g.AddEdge("y", "z")
	g.AddEdge("z", "x")
	g.AddEdge("b", "x") // bridges the two cycles, shouldn't merge them

	sccs := sortedComponents(g.StronglyConnectedComponents())
	assert.Equal(t, [][]string{{"a", "b"}, {"x", "y", "z"}}, sccs)
}

func TestStronglyConnectedComponents_IgnoresIsolatedNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("lonely")
	g.AddEdge("a", "b")

	assert.Empty(t, g.StronglyConnectedComponents())
}
