package aggregator_test

import (
	"testing"

	"github.com/Iovva/codeatlas/internal/aggregator"
	"github.com/Iovva/codeatlas/internal/model"
)

func doc(path, text string) *model.SourceDocument {
	return &model.SourceDocument{AbsPath: path, RepoRelPath: path, Text: []byte(text)}
}

func TestAggregate_FileScopedAndBlockFormShareNamespaceNode(t *testing.T) {
	docs := []*model.SourceDocument{
		doc("Foo.cs", "namespace App.Models;\n\nclass Foo {}\n"),
		doc("Bar.cs", "namespace App.Models { class Bar {} }\n"),
	}

	fileGraph := model.Graph{
		Nodes: []model.Node{
			{ID: model.FileNodeID("Foo.cs"), LOC: 2},
			{ID: model.FileNodeID("Bar.cs"), LOC: 1},
		},
	}

	a := aggregator.New(nil)
	got := a.Aggregate(fileGraph, docs)

	if len(got.Nodes) != 1 {
		t.Fatalf("expected both files to collapse into one namespace node, got %v", got.Nodes)
	}

	want := model.NamespaceNodeID("App.Models")
	if got.Nodes[0].ID != want {
		t.Errorf("ID = %q, want %q", got.Nodes[0].ID, want)
	}

	if got.Nodes[0].LOC != 3 {
		t.Errorf("LOC = %d, want 3", got.Nodes[0].LOC)
	}
}

func TestAggregate_SameNamespaceSelfLoopAlwaysEmitted(t *testing.T) {
	docs := []*model.SourceDocument{
		doc("Foo.cs", "namespace App;\n\nclass Foo {}\n"),
		doc("Bar.cs", "namespace App;\n\nclass Bar {}\n"),
	}

	fileGraph := model.Graph{
		Nodes: []model.Node{
			{ID: model.FileNodeID("Foo.cs"), LOC: 1},
			{ID: model.FileNodeID("Bar.cs"), LOC: 1},
		},
		Edges: []model.Edge{
			{From: model.FileNodeID("Bar.cs"), To: model.FileNodeID("Foo.cs")},
		},
	}

	a := aggregator.New(nil)
	got := a.Aggregate(fileGraph, docs)

	nsID := model.NamespaceNodeID("App")

	found := false

	for _, e := range got.Edges {
		if e.From == nsID && e.To == nsID {
			found = true
		}
	}

	if !found {
		t.Errorf("expected self-loop edge on %q, got %v", nsID, got.Edges)
	}

	if len(got.Edges) != 1 {
		t.Errorf("expected exactly one deduped edge, got %v", got.Edges)
	}
}

func TestAggregate_UnmappedFileFallsBackToGlobal(t *testing.T) {
	docs := []*model.SourceDocument{
		doc("Foo.cs", "class Foo {}\n"),
	}

	fileGraph := model.Graph{
		Nodes: []model.Node{
			{ID: model.FileNodeID("Foo.cs"), LOC: 1},
		},
	}

	a := aggregator.New(nil)
	got := a.Aggregate(fileGraph, docs)

	if len(got.Nodes) != 1 {
		t.Fatalf("expected one namespace node, got %v", got.Nodes)
	}

	if got.Nodes[0].Label != model.GlobalNamespaceLabel {
		t.Errorf("Label = %q, want %q", got.Nodes[0].Label, model.GlobalNamespaceLabel)
	}
}
