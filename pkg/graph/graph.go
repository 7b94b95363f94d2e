package graph

// Graph is a directed graph over string-identified nodes. It wraps an
// IntGraph with a SymbolTable so callers never have to manage integer IDs.
type Graph struct {
	symbols *SymbolTable
	ints    *IntGraph
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		symbols: NewSymbolTable(),
		ints:    NewIntGraph(),
	}
}

// AddNode registers name as a node, even if it has no edges.
func (g *Graph) AddNode(name string) {
	g.ints.AddNode(g.symbols.Intern(name))
}

// AddEdge adds a directed edge from -> to, interning both endpoints.
func (g *Graph) AddEdge(from, to string) {
	src := g.symbols.Intern(from)
	dst := g.symbols.Intern(to)
	g.ints.AddEdge(src, dst)
}

// NodeCount returns the number of distinct node names interned so far.
func (g *Graph) NodeCount() int {
	return g.symbols.Len()
}
