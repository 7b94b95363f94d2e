// Package model holds the data shapes shared across every pipeline stage:
// manifests, source documents, symbols, graph nodes/edges, and the final
// analysis report. Nothing here performs I/O or owns a stage's logic.
package model

import "time"

// ProjectManifest points at a project description file and the directory
// tree it governs.
type ProjectManifest struct {
	// ManifestPath is the absolute path to the .sln or .csproj file.
	ManifestPath string
	// Dir is the absolute directory the manifest governs.
	Dir string
	// Name is the derived project name (manifest file stem for .csproj).
	Name string
	// Language is the detected project language tag, "csharp" for accepted projects.
	Language string
	// TargetTag is the inferred target platform (e.g. "net8.0"), best-effort.
	TargetTag string
	// Excluded marks a manifest filtered out by the test-project rule.
	Excluded bool
	// ExcludeReason records why, for diagnostics.
	ExcludeReason string
}

// SourceDocument is a single accepted file participating in analysis.
type SourceDocument struct {
	// AbsPath is the absolute filesystem path.
	AbsPath string
	// RepoRelPath is the repository-relative path, forward-slash separated.
	RepoRelPath string
	// Project is the owning project manifest.
	Project *ProjectManifest
	// Generated marks a file matched by the generated-file rule. The project
	// loader skips such files before building a SourceDocument, so no
	// document it returns has Generated set.
	Generated bool
	// Text is the decoded file content.
	Text []byte
}

// Node is one entry in a dependency graph (file or namespace level).
type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	LOC    int    `json:"loc"`
	FanIn  int    `json:"fanIn"`
	FanOut int    `json:"fanOut"`
}

// Edge is a directed edge between two node identifiers.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a node list plus an edge list. Node order is lexicographic by
// ID; edge order is insertion order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// CycleGroup is a strongly connected component of size >= 2 in the file graph.
type CycleGroup struct {
	ID     int      `json:"id"`
	Size   int      `json:"size"`
	Sample []string `json:"sample"`
}

// Counts is the metrics counts block.
type Counts struct {
	NamespaceNodes int `json:"namespaceNodes"`
	FileNodes      int `json:"fileNodes"`
	Edges          int `json:"edges"`
}

// Metrics is the aggregate metrics block of the final report.
type Metrics struct {
	Counts    Counts `json:"counts"`
	FanInTop  []Node `json:"fanInTop"`
	FanOutTop []Node `json:"fanOutTop"`
}

// Meta is the request metadata block.
type Meta struct {
	Repo        string    `json:"repo"`
	Branch      string    `json:"branch,omitempty"`
	Commit      string    `json:"commit,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Graphs bundles both dependency graphs.
type Graphs struct {
	Namespace Graph `json:"namespace"`
	File      Graph `json:"file"`
}

// AnalysisReport is the final artifact produced by the assembler stage.
type AnalysisReport struct {
	Meta    Meta         `json:"meta"`
	Graphs  Graphs       `json:"graphs"`
	Metrics Metrics      `json:"metrics"`
	Cycles  []CycleGroup `json:"cycles"`
}

// FileNodeID builds the canonical identifier for a file node.
func FileNodeID(repoRelPath string) string { return "File:" + repoRelPath }

// NamespaceNodeID builds the canonical identifier for a namespace node.
func NamespaceNodeID(fqName string) string { return "Namespace:" + fqName }

// GlobalNamespace is the synthetic namespace assigned to files with no
// declared namespace.
const GlobalNamespace = "<global>"

// GlobalNamespaceLabel is the display label for GlobalNamespace.
const GlobalNamespaceLabel = "(global)"
