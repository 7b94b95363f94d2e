package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iovva/codeatlas/internal/aggregator"
	"github.com/Iovva/codeatlas/internal/assembler"
	"github.com/Iovva/codeatlas/internal/csharp"
	"github.com/Iovva/codeatlas/internal/cycles"
	"github.com/Iovva/codeatlas/internal/metrics"
	"github.com/Iovva/codeatlas/internal/model"
	"github.com/Iovva/codeatlas/internal/pipeline"
	"github.com/Iovva/codeatlas/internal/project"
	"github.com/Iovva/codeatlas/internal/triage"
)

const minimalCsproj = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
</Project>
`

// fixtureWorkspace stands in for internal/workspace.Manager: Fetch hands
// back a pre-populated directory instead of actually cloning anything, per
// the fake pipeline.Workspace injection SPEC_FULL.md's test-tooling section
// describes for exercising the pipeline end to end.
type fixtureWorkspace struct {
	dir string
}

func (f *fixtureWorkspace) Fetch(ctx context.Context, repoURL, branch string) (string, string, string, error) {
	return f.dir, "main", "deadbeef", nil
}

func (f *fixtureWorkspace) Release(dir string) error { return nil }

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return dir
}

func newScenarioPipeline(dir string) *pipeline.Pipeline {
	return pipeline.NewPipeline(pipeline.Deps{
		Workspace:     &fixtureWorkspace{dir: dir},
		Triage:        triage.NewScanner(1000),
		ProjectLoader: project.NewLoader(100, 1000, 10<<20),
		Resolver:      csharp.NewResolver(1000, nil),
		Aggregator:    aggregator.New(nil),
		Metrics:       metrics.NewComputer(),
		Cycles:        cycles.NewDetector(),
		Assembler:     assembler.NewAssembler(),
	})
}

func nodeIDs(nodes []model.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}

	return ids
}

func TestPipeline_TinyAcyclicProject(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"Foo.cs":     "namespace App;\n\npublic class Foo {}\n",
		"Bar.cs": "namespace App;\n\npublic class Bar {\n" +
			"    public void Use() {\n        var f = new Foo();\n    }\n}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/tiny"})
	require.NoError(t, err)

	fileGraph := result.Report.Graphs.File
	assert.ElementsMatch(t, []string{model.FileNodeID("Foo.cs"), model.FileNodeID("Bar.cs")}, nodeIDs(fileGraph.Nodes))
	assert.Equal(t, []model.Edge{{From: model.FileNodeID("Bar.cs"), To: model.FileNodeID("Foo.cs")}}, fileGraph.Edges)
	assert.Empty(t, result.Report.Cycles)

	nsGraph := result.Report.Graphs.Namespace
	require.Len(t, nsGraph.Nodes, 1)
	assert.Equal(t, model.NamespaceNodeID("App"), nsGraph.Nodes[0].ID)
}

func TestPipeline_TwoNodeCycle(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"Foo.cs": "namespace App;\n\npublic class Foo {\n" +
			"    public void Use() {\n        var b = new Bar();\n    }\n}\n",
		"Bar.cs": "namespace App;\n\npublic class Bar {\n" +
			"    public void Use() {\n        var f = new Foo();\n    }\n}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/two-cycle"})
	require.NoError(t, err)

	fileGraph := result.Report.Graphs.File
	assert.Len(t, fileGraph.Edges, 2)

	require.Len(t, result.Report.Cycles, 1)
	assert.Equal(t, 2, result.Report.Cycles[0].Size)
	assert.ElementsMatch(t, []string{model.FileNodeID("Foo.cs"), model.FileNodeID("Bar.cs")}, result.Report.Cycles[0].Sample)
}

func TestPipeline_ThreeNodeCycleWithSatellite(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"A.cs": "namespace App;\n\npublic class A {\n" +
			"    public void Use() {\n        var b = new B();\n    }\n}\n",
		"B.cs": "namespace App;\n\npublic class B {\n" +
			"    public void Use() {\n        var c = new C();\n    }\n}\n",
		"C.cs": "namespace App;\n\npublic class C {\n" +
			"    public void Use() {\n        var a = new A();\n    }\n}\n",
		"D.cs": "namespace App;\n\npublic class D {\n" +
			"    public void Use() {\n        var a = new A();\n    }\n}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/three-cycle"})
	require.NoError(t, err)

	require.Len(t, result.Report.Cycles, 1)
	assert.Equal(t, 3, result.Report.Cycles[0].Size)
	assert.NotContains(t, result.Report.Cycles[0].Sample, model.FileNodeID("D.cs"))

	fileGraph := result.Report.Graphs.File
	assert.Contains(t, nodeIDs(fileGraph.Nodes), model.FileNodeID("D.cs"))
	assert.Contains(t, fileGraph.Edges, model.Edge{From: model.FileNodeID("D.cs"), To: model.FileNodeID("A.cs")})
}

func TestPipeline_PartialClassResolvesToFirstDeclaringFile(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"Foo.A.cs":   "namespace App;\n\npublic partial class Foo {}\n",
		"Foo.B.cs":   "namespace App;\n\npublic partial class Foo {\n    public void Helper() {}\n}\n",
		"User.cs": "namespace App;\n\npublic class User {\n" +
			"    public void Use() {\n        var f = new Foo();\n    }\n}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/partial"})
	require.NoError(t, err)

	fileGraph := result.Report.Graphs.File
	assert.Contains(t, fileGraph.Edges, model.Edge{From: model.FileNodeID("User.cs"), To: model.FileNodeID("Foo.A.cs")})
	assert.NotContains(t, fileGraph.Edges, model.Edge{From: model.FileNodeID("User.cs"), To: model.FileNodeID("Foo.B.cs")})
}

func TestPipeline_FileScopedAndBlockFormShareNamespaceNode(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"Foo.cs":     "namespace App.Models;\n\npublic class Foo {}\n",
		"Bar.cs": "namespace App.Models {\n    public class Bar {\n" +
			"        public void Use() {\n            var f = new Foo();\n        }\n    }\n}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/ns-form"})
	require.NoError(t, err)

	nsGraph := result.Report.Graphs.Namespace
	require.Len(t, nsGraph.Nodes, 1)
	assert.Equal(t, model.NamespaceNodeID("App.Models"), nsGraph.Nodes[0].ID)
	assert.Equal(t, "Models", nsGraph.Nodes[0].Label)
}

func TestPipeline_GeneratedFileExcludedFromAnalysis(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"Program.cs": "namespace App;\n\npublic class Program {\n" +
			"    public void Use() {\n        var h = new Helper();\n        var f = new Foo();\n    }\n}\n",
		"Helper.g.cs": "namespace App;\n\npublic class Helper {}\n",
		"Foo.cs":      "namespace App;\n\npublic class Foo {}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/generated"})
	require.NoError(t, err)

	fileGraph := result.Report.Graphs.File
	assert.NotContains(t, nodeIDs(fileGraph.Nodes), model.FileNodeID("Helper.g.cs"))
	// Helper is never loaded, so the reference to it can't resolve and
	// produces no edge pointing at a node that doesn't exist; the
	// co-located reference to Foo, a normal file, still resolves.
	assert.Equal(t, []model.Edge{{From: model.FileNodeID("Program.cs"), To: model.FileNodeID("Foo.cs")}}, fileGraph.Edges)
}

func TestPipeline_SelfEdgeDisciplineOnlyCountsUseSiteSelfReferences(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"App.csproj": minimalCsproj,
		"Foo.cs": "namespace App;\n\npublic class Foo {\n" +
			"    public static Foo Create() {\n        return new Foo();\n    }\n}\n",
	})

	result, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/self-edge"})
	require.NoError(t, err)

	fileGraph := result.Report.Graphs.File
	assert.Equal(t, []model.Edge{{From: model.FileNodeID("Foo.cs"), To: model.FileNodeID("Foo.cs")}}, fileGraph.Edges)
	assert.Equal(t, []string{model.FileNodeID("Foo.cs")}, nodeIDs(fileGraph.Nodes))
	// A self-loop alone is not a strongly connected component of size >= 2.
	assert.Empty(t, result.Report.Cycles)
}

func TestPipeline_NoManifestSurfacesLanguageEvidence(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"main.py": "print('hello')\n",
		"lib.py":  "def helper():\n    pass\n",
	})

	_, err := newScenarioPipeline(dir).Run(context.Background(), pipeline.Options{RepoURL: "local/no-manifest"})

	var perr *pipeline.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, pipeline.KindNoSolutionOrProject, perr.Kind)
	assert.Contains(t, perr.DetectedLanguages, "Python")
}
