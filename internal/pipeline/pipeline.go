// Package pipeline orchestrates the eight analysis stages (workspace, triage,
// project loading, parsing/resolution, aggregation, metrics, cycle detection,
// assembly) into the single Run entry point every caller (CLI, MCP server)
// goes through. Dependencies are passed explicitly through Deps; there
// is no container or global registry.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Iovva/codeatlas/internal/model"
)

// Options is the input to a single analysis run.
type Options struct {
	// RepoURL is the repository to clone. Required.
	RepoURL string
	// Branch is the branch to fetch. Empty uses the remote's default branch.
	Branch string
}

// Result is the output of a successful analysis run.
type Result struct {
	Report *model.AnalysisReport
	// Commit is the resolved HEAD commit SHA of the analyzed checkout.
	Commit string
}

// Workspace materializes a repository checkout on local disk and resolves
// its HEAD commit. Implemented by internal/workspace.Manager.
type Workspace interface {
	Fetch(ctx context.Context, repoURL, branch string) (dir, resolvedBranch, commit string, err error)
	Release(dir string) error
}

// Triage walks a checkout and locates the manifest set to load. Implemented
// by internal/triage.Scanner.
type Triage interface {
	Locate(ctx context.Context, dir string) (manifestPaths []string, err error)
}

// ProjectLoader turns manifest paths into accepted project/document sets.
// Implemented by internal/project.Loader.
type ProjectLoader interface {
	Load(ctx context.Context, dir string, manifestPaths []string) ([]*model.ProjectManifest, []*model.SourceDocument, error)
}

// Resolver parses accepted documents and extracts file-level dependency
// edges. Implemented by internal/csharp.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, docs []*model.SourceDocument) (fileGraph model.Graph, err error)
}

// Aggregator lifts a file-level graph to a namespace-level graph. Implemented
// by internal/aggregator.Aggregator.
type Aggregator interface {
	Aggregate(fileGraph model.Graph, docs []*model.SourceDocument) model.Graph
}

// MetricsComputer derives the metrics block from both graphs. Implemented by
// internal/metrics.Computer.
type MetricsComputer interface {
	Compute(fileGraph, namespaceGraph model.Graph) model.Metrics
}

// CycleDetector finds strongly connected components in the file graph.
// Implemented by internal/cycles.Detector.
type CycleDetector interface {
	Detect(fileGraph model.Graph) []model.CycleGroup
}

// Assembler validates and finalizes the report. Implemented by
// internal/assembler.Assembler.
type Assembler interface {
	Assemble(meta model.Meta, fileGraph, namespaceGraph model.Graph, metrics model.Metrics, cycles []model.CycleGroup) (*model.AnalysisReport, error)
}

// Deps bundles the stage implementations and ambient dependencies a Pipeline
// needs. Every stage field is required; NewPipeline panics on a nil stage
// since a missing stage is a wiring bug, not a runtime condition. A nil
// Logger defaults to slog.Default and a nil Now to time.Now.
type Deps struct {
	Workspace     Workspace
	Triage        Triage
	ProjectLoader ProjectLoader
	Resolver      Resolver
	Aggregator    Aggregator
	Metrics       MetricsComputer
	Cycles        CycleDetector
	Assembler     Assembler
	Logger        *slog.Logger
	Now           func() time.Time
}

// Pipeline runs the full analysis sequence for one repository at a time.
// A Pipeline has no mutable state and is safe for concurrent use across
// distinct Run calls.
type Pipeline struct {
	deps Deps
}

// NewPipeline builds a Pipeline from deps. Panics if a required stage is nil.
func NewPipeline(deps Deps) *Pipeline {
	switch {
	case deps.Workspace == nil:
		panic("pipeline: Workspace dependency is nil")
	case deps.Triage == nil:
		panic("pipeline: Triage dependency is nil")
	case deps.ProjectLoader == nil:
		panic("pipeline: ProjectLoader dependency is nil")
	case deps.Resolver == nil:
		panic("pipeline: Resolver dependency is nil")
	case deps.Aggregator == nil:
		panic("pipeline: Aggregator dependency is nil")
	case deps.Metrics == nil:
		panic("pipeline: Metrics dependency is nil")
	case deps.Cycles == nil:
		panic("pipeline: Cycles dependency is nil")
	case deps.Assembler == nil:
		panic("pipeline: Assembler dependency is nil")
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Pipeline{deps: deps}
}

// Run executes all eight stages for one repository. On a stage failure it
// returns that stage's error unchanged (errors.As recovers the Kind where the
// stage returned an *Error; the assembler's errors are plain errors). Once
// Fetch has succeeded, the checkout is released whatever the outcome; a
// failed Fetch returns before any release.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.RepoURL == "" {
		return nil, NewInternalError(fmt.Errorf("empty repo url"))
	}

	log := p.deps.Logger.With("repo", opts.RepoURL, "branch", opts.Branch)
	log.InfoContext(ctx, "pipeline run starting")

	dir, resolvedBranch, commit, err := p.deps.Workspace.Fetch(ctx, opts.RepoURL, opts.Branch)
	if err != nil {
		log.ErrorContext(ctx, "workspace fetch failed", "error", err)
		return nil, err
	}

	defer func() {
		if releaseErr := p.deps.Workspace.Release(dir); releaseErr != nil {
			log.WarnContext(ctx, "workspace release failed", "error", releaseErr)
		}
	}()

	manifestPaths, err := p.deps.Triage.Locate(ctx, dir)
	if err != nil {
		log.ErrorContext(ctx, "triage failed", "error", err)
		return nil, err
	}

	projects, docs, err := p.deps.ProjectLoader.Load(ctx, dir, manifestPaths)
	if err != nil {
		log.ErrorContext(ctx, "project load failed", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "projects loaded", "projects", len(projects), "documents", len(docs))

	fileGraph, err := p.deps.Resolver.Resolve(ctx, docs)
	if err != nil {
		log.ErrorContext(ctx, "resolve failed", "error", err)
		return nil, err
	}

	namespaceGraph := p.deps.Aggregator.Aggregate(fileGraph, docs)
	metrics := p.deps.Metrics.Compute(fileGraph, namespaceGraph)
	cycles := p.deps.Cycles.Detect(fileGraph)

	meta := model.Meta{
		Repo:        opts.RepoURL,
		Branch:      resolvedBranch,
		Commit:      commit,
		GeneratedAt: p.deps.Now().UTC(),
	}

	report, err := p.deps.Assembler.Assemble(meta, fileGraph, namespaceGraph, metrics, cycles)
	if err != nil {
		log.ErrorContext(ctx, "assemble failed", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "pipeline run complete",
		"fileNodes", len(fileGraph.Nodes), "namespaceNodes", len(namespaceGraph.Nodes), "cycles", len(cycles))

	return &Result{Report: report, Commit: commit}, nil
}
