package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Iovva/codeatlas/internal/model"
)

const (
	graphWidth  = "1200px"
	graphHeight = "800px"

	// nodeSymbolBase and nodeSymbolPerEdge scale a node's rendered circle
	// with its total fan-in+fan-out, so busy namespaces stand out visually.
	nodeSymbolBase    = 10
	nodeSymbolPerEdge = 2
)

// RenderNamespaceGraphHTML writes a standalone HTML page containing an
// interactive force-directed graph of the report's namespace dependency
// graph to w.
func RenderNamespaceGraphHTML(r *model.AnalysisReport, w io.Writer) error {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: graphWidth, Height: graphHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s namespace dependencies", r.Meta.Repo),
			Subtitle: fmt.Sprintf("%d namespaces, %d edges", len(r.Graphs.Namespace.Nodes), len(r.Graphs.Namespace.Edges)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.GraphNode, 0, len(r.Graphs.Namespace.Nodes))
	for _, n := range r.Graphs.Namespace.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       n.Label,
			SymbolSize: nodeSymbolBase + nodeSymbolPerEdge*(n.FanIn+n.FanOut),
			Value:      float32(n.LOC),
		})
	}

	links := make([]opts.GraphLink, 0, len(r.Graphs.Namespace.Edges))

	labelByID := make(map[string]string, len(r.Graphs.Namespace.Nodes))
	for _, n := range r.Graphs.Namespace.Nodes {
		labelByID[n.ID] = n.Label
	}

	for _, e := range r.Graphs.Namespace.Edges {
		links = append(links, opts.GraphLink{Source: labelByID[e.From], Target: labelByID[e.To]})
	}

	graph.AddSeries("namespaces", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:             "force",
			Roam:               opts.Bool(true),
			FocusNodeAdjacency: opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 200},
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)

	if err := graph.Render(w); err != nil {
		return fmt.Errorf("render namespace graph: %w", err)
	}

	return nil
}
