package csharp

import "testing"

func TestSymbolTable_DeclareAndLookupFQN(t *testing.T) {
	st := NewSymbolTable()
	st.declare("App.Models.Foo", "App.Models", SymbolLocation{Path: "Foo.cs", StartByte: 10, EndByte: 13})

	sym, ok := st.LookupFQN("App.Models.Foo")
	if !ok {
		t.Fatalf("expected symbol to be found")
	}

	if sym.Container != "App.Models" {
		t.Errorf("Container = %q, want %q", sym.Container, "App.Models")
	}

	if got := sym.DeclaringFiles(); len(got) != 1 || got[0] != "Foo.cs" {
		t.Errorf("DeclaringFiles() = %v", got)
	}
}

func TestSymbolTable_PartialDeclarationKeepsFirstInEnumerationOrder(t *testing.T) {
	st := NewSymbolTable()
	st.declare("App.Foo", "App", SymbolLocation{Path: "Foo.First.cs"})
	st.declare("App.Foo", "App", SymbolLocation{Path: "Foo.Second.cs"})

	sym, ok := st.LookupFQN("App.Foo")
	if !ok {
		t.Fatalf("expected symbol to be found")
	}

	files := sym.DeclaringFiles()
	if len(files) != 2 || files[0] != "Foo.First.cs" {
		t.Fatalf("DeclaringFiles() = %v, want first entry Foo.First.cs", files)
	}
}

func TestSymbolTable_LookupShortName(t *testing.T) {
	st := NewSymbolTable()
	st.declare("App.Models.Foo", "App.Models", SymbolLocation{Path: "Foo.cs"})
	st.declare("Other.Foo", "Other", SymbolLocation{Path: "OtherFoo.cs"})

	matches := st.LookupShortName("Foo")
	if len(matches) != 2 {
		t.Fatalf("LookupShortName(Foo) = %d matches, want 2", len(matches))
	}

	if matches[0].Name != "App.Models.Foo" {
		t.Errorf("matches[0].Name = %q, want first-registered App.Models.Foo", matches[0].Name)
	}
}
