// Package aggregator implements stage 5: lifting the file-level dependency
// graph up to a namespace-level graph.
package aggregator

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Iovva/codeatlas/internal/csharp"
	"github.com/Iovva/codeatlas/internal/model"
)

// Aggregator lifts a file graph into a namespace graph.
type Aggregator struct {
	logger *slog.Logger
}

// New creates an Aggregator.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{logger: logger}
}

// Aggregate maps each SourceDocument to its primary namespace (file-scoped
// preferred over the first block-form declaration, otherwise the global
// namespace) and lifts every file edge to a namespace edge. Edge lifting
// always emits the lifted edge, including the self-loop case where both
// endpoints map to the same namespace: any file edge between files of one
// namespace is real information about that namespace, not a degenerate
// case to suppress.
func (a *Aggregator) Aggregate(fileGraph model.Graph, docs []*model.SourceDocument) model.Graph {
	namespaceOf := make(map[string]string, len(docs))

	for _, d := range docs {
		ns, err := csharp.PrimaryNamespace(d.RepoRelPath, d.Text)
		if err != nil {
			a.logger.Debug("falling back to global namespace after parse failure", "path", d.RepoRelPath, "error", err)

			ns = model.GlobalNamespace
		}

		namespaceOf[model.FileNodeID(d.RepoRelPath)] = ns
	}

	nsLOC := map[string]int{}
	for _, d := range docs {
		ns := namespaceOf[model.FileNodeID(d.RepoRelPath)]
		nsLOC[ns] += csharp.CountLOC(d.Text)
	}

	type edgeKey struct{ from, to string }

	seen := map[edgeKey]bool{}

	var edges []model.Edge

	for _, e := range fileGraph.Edges {
		n1, ok1 := namespaceOf[e.From]
		n2, ok2 := namespaceOf[e.To]

		if !ok1 {
			n1 = model.GlobalNamespace
		}

		if !ok2 {
			n2 = model.GlobalNamespace
		}

		key := edgeKey{from: model.NamespaceNodeID(n1), to: model.NamespaceNodeID(n2)}
		if seen[key] {
			continue
		}

		seen[key] = true

		edges = append(edges, model.Edge{From: key.from, To: key.to})
	}

	nodes := make([]model.Node, 0, len(nsLOC))
	for ns, locSum := range nsLOC {
		nodes = append(nodes, model.Node{
			ID:    model.NamespaceNodeID(ns),
			Label: namespaceLabel(ns),
			LOC:   locSum,
		})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return model.Graph{Nodes: nodes, Edges: edges}
}

// namespaceLabel returns the display label for a namespace: its last
// dotted segment, or the global namespace's own display form.
func namespaceLabel(ns string) string {
	if ns == model.GlobalNamespace {
		return model.GlobalNamespaceLabel
	}

	segments := strings.Split(strings.TrimSpace(ns), ".")

	return segments[len(segments)-1]
}
