// Package csharp is the algorithmic heart of the pipeline: it parses C#
// source with tree-sitter, builds a best-effort project-wide semantic
// model, and runs the edge-extraction algorithm that produces the
// file-level dependency graph.
package csharp

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/dustin/go-humanize"

	"github.com/Iovva/codeatlas/internal/model"
	"github.com/Iovva/codeatlas/internal/pipeline"
)

// targetTagsRequiringSdk is a curated list of legacy/uncommon target
// framework monikers that typically require an SDK this environment does
// not ship. When no document in any project parses and some document's
// project manifest carries one of these, the failure is reported as
// MissingSdk instead of a generic BuildFailed.
var targetTagsRequiringSdk = []string{
	"monoandroid",
	"xamarin",
	"netcoreapp1.",
	"netcoreapp2.0",
	"net35",
	"net20",
}

// Resolver implements pipeline.Resolver: it parses every accepted document,
// builds a project-wide symbol table, and extracts file-level dependency
// edges by resolving identifier occurrences against it.
type Resolver struct {
	maxEdges int
	logger   *slog.Logger
}

// NewResolver creates a Resolver bounded by maxEdges.
func NewResolver(maxEdges int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{maxEdges: maxEdges, logger: logger}
}

// Resolve runs the edge-extraction algorithm over docs and returns the
// file-level dependency graph.
func (r *Resolver) Resolve(ctx context.Context, docs []*model.SourceDocument) (model.Graph, error) {
	parsed := make(map[string]*parsedDocument, len(docs))
	parsedByProject := map[*model.ProjectManifest]int{}
	totalByProject := map[*model.ProjectManifest]int{}

	for _, d := range docs {
		totalByProject[d.Project]++

		pd, err := parseSource(ctx, d.RepoRelPath, d.Text)
		if err != nil {
			r.logger.DebugContext(ctx, "parse failed, skipping document", "path", d.RepoRelPath, "error", err)
			continue
		}

		parsed[d.RepoRelPath] = pd
		parsedByProject[d.Project]++
	}

	if len(parsed) == 0 {
		return model.Graph{}, r.buildFailure(docs)
	}

	for project, total := range totalByProject {
		if parsedByProject[project] == 0 && total > 0 {
			r.logger.WarnContext(ctx, "project failed to produce any compilation unit", "project", project.Name)
		}
	}

	paths := make([]string, 0, len(parsed))
	for p := range parsed {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	// Declarations are collected in sorted-path order so that a symbol
	// declared in more than one file (partial declarations) always
	// accumulates its Locations in the same order across runs: the
	// "first declaring file" a reference resolves to must be
	// deterministic for a fixed input tree, not an artifact of Go's
	// randomized map iteration.
	symbolTable := NewSymbolTable()
	for _, p := range paths {
		collectDeclarations(parsed[p], symbolTable)
	}

	type docScope struct {
		doc    *parsedDocument
		ns     string
		usings []string
	}

	scopes := make([]docScope, 0, len(parsed))

	for _, p := range paths {
		pd := parsed[p]
		scopes = append(scopes, docScope{
			doc:    pd,
			ns:     namespaceOf(pd),
			usings: collectUsings(pd.root, pd.text, nil),
		})
	}

	type edgeKey struct{ from, to string }

	seen := map[edgeKey]bool{}

	var edges []model.Edge

	for _, sc := range scopes {
		w := &edgeWalker{
			doc:         sc.doc,
			primaryNS:   sc.ns,
			usings:      sc.usings,
			symbolTable: symbolTable,
		}

		for _, ref := range w.walk() {
			key := edgeKey{from: sc.doc.path, to: ref}
			if seen[key] {
				continue
			}

			seen[key] = true

			edges = append(edges, model.Edge{From: model.FileNodeID(key.from), To: model.FileNodeID(key.to)})

			if len(edges) > r.maxEdges {
				return model.Graph{}, pipeline.NewLimitsExceeded(fmt.Sprintf(
					"file dependency edge count exceeds the configured cap of %s edges",
					humanize.Comma(int64(r.maxEdges)),
				))
			}
		}

		for _, ref := range w.selfEdges() {
			key := edgeKey{from: sc.doc.path, to: ref}
			if seen[key] {
				continue
			}

			seen[key] = true

			edges = append(edges, model.Edge{From: model.FileNodeID(key.from), To: model.FileNodeID(key.to)})

			if len(edges) > r.maxEdges {
				return model.Graph{}, pipeline.NewLimitsExceeded(fmt.Sprintf(
					"file dependency edge count exceeds the configured cap of %s edges",
					humanize.Comma(int64(r.maxEdges)),
				))
			}
		}
	}

	participates := make(map[string]bool, len(edges)*2)
	for _, e := range edges {
		participates[e.From] = true
		participates[e.To] = true
	}

	nodes := make([]model.Node, 0, len(participates))

	for _, d := range docs {
		id := model.FileNodeID(d.RepoRelPath)
		if !participates[id] {
			continue
		}

		nodes = append(nodes, model.Node{
			ID:    id,
			Label: path.Base(d.RepoRelPath),
			LOC:   CountLOC(d.Text),
		})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return model.Graph{Nodes: nodes, Edges: edges}, nil
}

func (r *Resolver) buildFailure(docs []*model.SourceDocument) error {
	for _, d := range docs {
		for _, tag := range targetTagsRequiringSdk {
			if strings.Contains(strings.ToLower(d.Project.TargetTag), tag) {
				return pipeline.NewMissingSdk(d.Project.TargetTag, fmt.Errorf("no document in project %s parsed successfully", d.Project.Name))
			}
		}
	}

	return pipeline.NewBuildFailed(
		"verify the checkout contains valid C# source compatible with the bundled grammar",
		fmt.Errorf("no document across %d projects parsed successfully", len(distinctProjects(docs))),
	)
}

func distinctProjects(docs []*model.SourceDocument) map[*model.ProjectManifest]bool {
	out := map[*model.ProjectManifest]bool{}
	for _, d := range docs {
		out[d.Project] = true
	}

	return out
}

// edgeWalker implements the edge-extraction algorithm (step 1-6) for a
// single document: walk the tree, discard using-scoped identifiers, resolve
// every remaining reference, and keep the first declaring file per symbol.
type edgeWalker struct {
	doc         *parsedDocument
	primaryNS   string
	usings      []string
	symbolTable *SymbolTable
	selfRefs    []string
}

// walk returns the repository-relative paths of every cross-file reference
// found in the document (self-references are collected separately, see
// selfEdges).
func (w *edgeWalker) walk() []string {
	var refs []string

	w.visit(w.doc.root, false, &refs)

	return refs
}

func (w *edgeWalker) selfEdges() []string {
	return w.selfRefs
}

func (w *edgeWalker) visit(n sitter.Node, inUseSite bool, refs *[]string) {
	kind := n.Type()

	if kind == kindUsingDirective {
		return // step 2: discard using/import-scoped identifiers entirely
	}

	if useSiteKinds[kind] {
		inUseSite = true
	}

	if typeDeclKinds[kind] || namespaceDeclKinds[kind] {
		w.visitDeclarationMembers(n, inUseSite, refs)
		return
	}

	switch kind {
	case kindQualifiedName, kindAliasQualifiedName:
		w.resolveReference(identifierText(n, w.doc.text), inUseSite, refs)

		return
	case kindGenericName:
		count := n.NamedChildCount()
		if count > 0 {
			first := n.NamedChild(0)
			w.resolveReference(identifierText(first, w.doc.text), inUseSite, refs)
		}

		for i := uint32(1); i < count; i++ {
			w.visit(n.NamedChild(i), inUseSite, refs)
		}

		return
	case kindIdentifier:
		w.resolveReference(identifierText(n, w.doc.text), inUseSite, refs)

		return
	}

	count := n.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		w.visit(n.NamedChild(i), inUseSite, refs)
	}
}

// visitDeclarationMembers walks a type/namespace declaration's members
// while skipping its own "name" child, so the declaration header is never
// mistaken for a use site of itself.
func (w *edgeWalker) visitDeclarationMembers(n sitter.Node, inUseSite bool, refs *[]string) {
	nameNode := n.ChildByFieldName("name")

	count := n.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := n.NamedChild(i)
		if !nameNode.IsNull() && child.StartByte() == nameNode.StartByte() && child.EndByte() == nameNode.EndByte() {
			continue
		}

		w.visit(child, inUseSite, refs)
	}
}

func (w *edgeWalker) resolveReference(text string, inUseSite bool, refs *[]string) {
	if text == "" {
		return
	}

	sym, ok := resolveIdentifier(text, w.primaryNS, w.usings, w.symbolTable)
	if !ok {
		return
	}

	files := sym.DeclaringFiles()
	if len(files) == 0 {
		return
	}

	first := files[0] // step 4: partial declarations resolve to the first in enumeration order

	if first == w.doc.path {
		if inUseSite {
			w.selfRefs = append(w.selfRefs, first)
		}

		return
	}

	*refs = append(*refs, first)
}
