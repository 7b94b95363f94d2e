package graph

// callFrame is one stack frame of the iterative Tarjan walk. It replaces the
// recursive call stack so the algorithm doesn't blow the goroutine stack on a
// file graph deep enough to matter.
type callFrame struct {
	nodeID    int
	edgeIndex int // next unprocessed index into adj[nodeID]
	childID   int // child just returned from, valid only between phase 1 and 2
	phase     int // 0=init, 1=process edges, 2=post-child, 3=finalize
}

// tarjanState carries the bookkeeping Tarjan's algorithm threads through
// every strongConnect call.
type tarjanState struct {
	ig       *IntGraph
	index    int
	disc     []int // discovery index per node, -1 if unvisited
	low      []int
	onStack  []bool
	stack    []int
	sccs     [][]int
}

// StronglyConnectedComponents runs Tarjan's algorithm over the graph and
// returns every component of size >= 2. Size-1 components are dropped,
// including a node whose only cycle is an edge to itself. Components are
// returned in the order their
// root was finalized, which is deterministic for a fixed edge-insertion
// order.
func (ig *IntGraph) StronglyConnectedComponents() [][]int {
	n := ig.NodeCount()

	st := &tarjanState{
		ig:      ig,
		disc:    make([]int, n),
		low:     make([]int, n),
		onStack: make([]bool, n),
		stack:   make([]int, 0, n),
		sccs:    make([][]int, 0),
	}

	for i := range st.disc {
		st.disc[i] = -1
	}

	for start := 0; start < n; start++ {
		if st.disc[start] == -1 {
			st.strongConnect(start)
		}
	}

	return st.sccs
}

func (st *tarjanState) strongConnect(start int) {
	callStack := []callFrame{{nodeID: start, phase: 0}}

	for len(callStack) > 0 {
		frame := &callStack[len(callStack)-1]

		switch frame.phase {
		case 0:
			st.disc[frame.nodeID] = st.index
			st.low[frame.nodeID] = st.index
			st.index++
			st.stack = append(st.stack, frame.nodeID)
			st.onStack[frame.nodeID] = true
			frame.phase = 1

		case 1:
			advanced := false

			for frame.edgeIndex < len(st.ig.adj[frame.nodeID]) {
				next := st.ig.adj[frame.nodeID][frame.edgeIndex]
				frame.edgeIndex++

				if st.disc[next] == -1 {
					frame.phase = 2
					frame.childID = next
					callStack = append(callStack, callFrame{nodeID: next, phase: 0})
					advanced = true

					break
				} else if st.onStack[next] {
					if st.disc[next] < st.low[frame.nodeID] {
						st.low[frame.nodeID] = st.disc[next]
					}
				}
			}

			if advanced {
				continue
			}

			frame.phase = 3

		case 2:
			if st.low[frame.childID] < st.low[frame.nodeID] {
				st.low[frame.nodeID] = st.low[frame.childID]
			}

			frame.phase = 1

		case 3:
			if st.low[frame.nodeID] == st.disc[frame.nodeID] {
				scc := make([]int, 0)

				for {
					w := st.stack[len(st.stack)-1]
					st.stack = st.stack[:len(st.stack)-1]
					st.onStack[w] = false
					scc = append(scc, w)

					if w == frame.nodeID {
						break
					}
				}

				if len(scc) > 1 {
					st.sccs = append(st.sccs, scc)
				}
			}

			callStack = callStack[:len(callStack)-1]
		}
	}
}

// StronglyConnectedComponents runs Tarjan's algorithm and resolves each
// component's node IDs back to their original names.
func (g *Graph) StronglyConnectedComponents() [][]string {
	idSccs := g.ints.StronglyConnectedComponents()

	result := make([][]string, len(idSccs))
	for i, scc := range idSccs {
		names := make([]string, len(scc))
		for j, id := range scc {
			names[j] = g.symbols.Resolve(id)
		}

		result[i] = names
	}

	return result
}
