package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iovva/codeatlas/internal/model"
	"github.com/Iovva/codeatlas/internal/report"
)

func sampleReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		Meta: model.Meta{Repo: "https://example.com/org/repo.git", GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		Graphs: model.Graphs{
			Namespace: model.Graph{
				Nodes: []model.Node{
					{ID: "Namespace:App", Label: "App", LOC: 10, FanIn: 1, FanOut: 2},
					{ID: "Namespace:App.Models", Label: "Models", LOC: 5, FanIn: 2, FanOut: 0},
				},
				Edges: []model.Edge{{From: "Namespace:App", To: "Namespace:App.Models"}},
			},
			File: model.Graph{
				Nodes: []model.Node{{ID: "File:A.cs", Label: "A.cs", LOC: 10}},
			},
		},
		Metrics: model.Metrics{
			Counts:    model.Counts{NamespaceNodes: 2, FileNodes: 1, Edges: 1},
			FanInTop:  []model.Node{{ID: "Namespace:App.Models", Label: "Models", FanIn: 2}},
			FanOutTop: []model.Node{{ID: "Namespace:App", Label: "App", FanOut: 2}},
		},
		Cycles: []model.CycleGroup{{ID: 1, Size: 2, Sample: []string{"File:A.cs", "File:B.cs"}}},
	}
}

func TestRenderConsole_IncludesCountsAndCycles(t *testing.T) {
	out := report.RenderConsole(sampleReport())

	assert.Contains(t, out, "example.com/org/repo.git")
	assert.Contains(t, out, "Models")
	assert.Contains(t, out, "File:A.cs, File:B.cs")
}

func TestRenderConsole_NoCyclesMessage(t *testing.T) {
	r := sampleReport()
	r.Cycles = nil

	out := report.RenderConsole(r)

	assert.Contains(t, out, "no cyclic dependency groups")
}

func TestRenderNamespaceGraphHTML_ProducesHTML(t *testing.T) {
	var buf strings.Builder

	err := report.RenderNamespaceGraphHTML(sampleReport(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Models")
}
