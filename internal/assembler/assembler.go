// Package assembler implements stage 8: composing the final AnalysisReport
// from the other stages' outputs, validating it against the embedded report
// schema, and optionally lz4-compressing the serialized form for transport.
package assembler

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pierrec/lz4/v4"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Iovva/codeatlas/internal/model"
)

//go:embed schema.json
var schemaFS embed.FS

var schemaLoader = mustLoadSchema()

func mustLoadSchema() gojsonschema.JSONLoader {
	data, err := schemaFS.ReadFile("schema.json")
	if err != nil {
		panic(fmt.Sprintf("assembler: embedded schema.json missing: %v", err))
	}

	return gojsonschema.NewBytesLoader(data)
}

// Assembler composes and validates the final report.
type Assembler struct{}

// NewAssembler creates an Assembler. It holds no state.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the AnalysisReport, re-sorts both graphs' node lists
// lexicographically by ID (metrics' in-place FanIn/FanOut mutation does not
// reorder them, but re-sorting here keeps the invariant independent of
// metrics' implementation), and validates the result against the embedded
// schema before returning it.
func (a *Assembler) Assemble(
	meta model.Meta,
	fileGraph, namespaceGraph model.Graph,
	metrics model.Metrics,
	cycles []model.CycleGroup,
) (*model.AnalysisReport, error) {
	// Empty lists must encode as [] rather than null to satisfy the schema's
	// array types (e.g. a repository with no edges or no cycles).
	fileGraph.Nodes = append([]model.Node{}, fileGraph.Nodes...)
	fileGraph.Edges = append([]model.Edge{}, fileGraph.Edges...)
	namespaceGraph.Nodes = append([]model.Node{}, namespaceGraph.Nodes...)
	namespaceGraph.Edges = append([]model.Edge{}, namespaceGraph.Edges...)
	metrics.FanInTop = append([]model.Node{}, metrics.FanInTop...)
	metrics.FanOutTop = append([]model.Node{}, metrics.FanOutTop...)
	cycles = append([]model.CycleGroup{}, cycles...)

	sortNodes(fileGraph.Nodes)
	sortNodes(namespaceGraph.Nodes)

	report := &model.AnalysisReport{
		Meta: meta,
		Graphs: model.Graphs{
			Namespace: namespaceGraph,
			File:      fileGraph,
		},
		Metrics: metrics,
		Cycles:  cycles,
	}

	if err := validate(report); err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}

	return report, nil
}

func sortNodes(nodes []model.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}

func validate(report *model.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report for validation: %w", err)
	}

	var asAny any

	if err := json.Unmarshal(data, &asAny); err != nil {
		return fmt.Errorf("decode report for validation: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(asAny))
	if err != nil {
		return fmt.Errorf("run schema validation: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("report failed schema validation: %s", result.Errors()[0])
	}

	return nil
}

// Compress lz4-frames the JSON-encoded report. Used by the CLI's
// --compress output mode for constrained transport channels.
func Compress(report *model.AnalysisReport) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress report: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close lz4 writer: %w", err)
	}

	return buf.Bytes(), nil
}
