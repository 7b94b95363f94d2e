package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntGraph_AddEdge(t *testing.T) {
	g := NewIntGraph()
	assert.True(t, g.AddEdge(0, 1))
	assert.True(t, g.AddEdge(1, 2))
	assert.False(t, g.AddEdge(0, 1))

	assert.Equal(t, []int{1}, g.Neighbors(0))
	assert.Equal(t, []int{2}, g.Neighbors(1))
	assert.Nil(t, g.Neighbors(2))
}

func TestIntGraph_NodeCount(t *testing.T) {
	g := NewIntGraph()
	g.AddNode(4)
	assert.Equal(t, 5, g.NodeCount())

	g.AddEdge(0, 10)
	assert.Equal(t, 11, g.NodeCount())
}

func TestIntGraph_NeighborsOutOfRange(t *testing.T) {
	g := NewIntGraph()
	assert.Nil(t, g.Neighbors(-1))
	assert.Nil(t, g.Neighbors(0))
}
