// Package report renders an AnalysisReport for human consumption: a
// console summary table via go-pretty and a standalone HTML namespace
// dependency graph via go-echarts.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Iovva/codeatlas/internal/model"
)

// RenderConsole returns a human-readable summary of report as a string:
// counts, the fan-in/fan-out top-N tables, and the cycle list.
func RenderConsole(r *model.AnalysisReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "codeatlas report for %s\n", r.Meta.Repo)

	if r.Meta.Commit != "" {
		fmt.Fprintf(&sb, "commit %s\n", r.Meta.Commit)
	}

	sb.WriteString(renderCounts(r.Metrics.Counts))
	sb.WriteString("\n")
	sb.WriteString(renderTopTable("Top fan-in", r.Metrics.FanInTop, func(n model.Node) int { return n.FanIn }))
	sb.WriteString("\n")
	sb.WriteString(renderTopTable("Top fan-out", r.Metrics.FanOutTop, func(n model.Node) int { return n.FanOut }))
	sb.WriteString("\n")
	sb.WriteString(renderCycles(r.Cycles))

	return sb.String()
}

func renderCounts(c model.Counts) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"file nodes", "namespace nodes", "edges"})
	tbl.AppendRow(table.Row{c.FileNodes, c.NamespaceNodes, c.Edges})

	return tbl.Render() + "\n"
}

func renderTopTable(title string, nodes []model.Node, score func(model.Node) int) string {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"id", "label", "loc", "score"})

	for _, n := range nodes {
		tbl.AppendRow(table.Row{n.ID, n.Label, n.LOC, score(n)})
	}

	return tbl.Render() + "\n"
}

func renderCycles(cycles []model.CycleGroup) string {
	if len(cycles) == 0 {
		return "no cyclic dependency groups\n"
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Cyclic dependency groups")
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"id", "size", "sample"})

	for _, c := range cycles {
		tbl.AppendRow(table.Row{c.ID, c.Size, strings.Join(c.Sample, ", ")})
	}

	return tbl.Render() + "\n"
}
