package csharp

import (
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Iovva/codeatlas/internal/model"
)

// SymbolLocation is a (document, span) pair at which a named declaration
// appears. A declaration may have many locations when it is partial.
type SymbolLocation struct {
	Path      string // repository-relative path of the declaring document
	StartByte uint32
	EndByte   uint32
}

// Symbol is a named type declaration, holding every location
// it was declared at in the order those declarations were encountered.
type Symbol struct {
	Name      string // fully qualified dotted name
	Container string // containing namespace, model.GlobalNamespace if none
	Locations []SymbolLocation
}

// DeclaringFiles returns the repository-relative paths Locations span, in
// encounter order, without duplicates.
func (s *Symbol) DeclaringFiles() []string {
	seen := make(map[string]bool, len(s.Locations))

	var files []string

	for _, loc := range s.Locations {
		if !seen[loc.Path] {
			seen[loc.Path] = true

			files = append(files, loc.Path)
		}
	}

	return files
}

// SymbolTable is the project-wide declaration index the resolver's
// semantic-model queries are built on.
type SymbolTable struct {
	mu          sync.Mutex
	byFQN       map[string]*Symbol
	byShortName map[string][]*Symbol // shares backing *Symbol with byFQN
}

// NewSymbolTable creates an empty SymbolTable.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		byFQN:       make(map[string]*Symbol),
		byShortName: make(map[string][]*Symbol),
	}
}

func (st *SymbolTable) declare(fqn, container string, loc SymbolLocation) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sym, ok := st.byFQN[fqn]
	if !ok {
		sym = &Symbol{Name: fqn, Container: container}
		st.byFQN[fqn] = sym

		short := fqn
		if idx := strings.LastIndex(fqn, "."); idx >= 0 {
			short = fqn[idx+1:]
		}

		st.byShortName[short] = append(st.byShortName[short], sym)
	}

	sym.Locations = append(sym.Locations, loc)
}

// LookupFQN resolves an exact, fully qualified name.
func (st *SymbolTable) LookupFQN(fqn string) (*Symbol, bool) {
	sym, ok := st.byFQN[fqn]
	return sym, ok
}

// LookupShortName returns every symbol registered under a bare (unqualified)
// name, in first-declared order.
func (st *SymbolTable) LookupShortName(name string) []*Symbol {
	return st.byShortName[name]
}

// collectDeclarations walks a parsed document's top-level shape, registering
// every namespace-scoped type declaration it finds. Nested member types
// (a class declared inside another class) are not separately indexed; they
// resolve, if at all, through their enclosing type's own use sites.
func collectDeclarations(doc *parsedDocument, st *SymbolTable) {
	fileNS := ""

	count := doc.root.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := doc.root.NamedChild(i)

		switch {
		case child.Type() == kindFileScopedNamespace:
			fileNS = identifierText(child.ChildByFieldName("name"), doc.text)
		case child.Type() == kindNamespaceDecl:
			walkBlockNamespace(child, doc, splitDots(fileNS), st)
		case typeDeclKinds[child.Type()]:
			registerTypeDecl(child, doc, splitDots(fileNS), st)
		}
	}
}

func walkBlockNamespace(n sitter.Node, doc *parsedDocument, outerNS []string, st *SymbolTable) {
	name := identifierText(n.ChildByFieldName("name"), doc.text)
	stack := append(append([]string{}, outerNS...), splitDots(name)...)

	count := n.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := n.NamedChild(i)

		switch {
		case child.Type() == kindNamespaceDecl:
			walkBlockNamespace(child, doc, stack, st)
		case typeDeclKinds[child.Type()]:
			registerTypeDecl(child, doc, stack, st)
		}
	}
}

func registerTypeDecl(n sitter.Node, doc *parsedDocument, nsStack []string, st *SymbolTable) {
	nameNode := n.ChildByFieldName("name")
	if nameNode.IsNull() {
		return
	}

	simple := identifierText(nameNode, doc.text)
	container := model.GlobalNamespace

	fqn := simple
	if len(nsStack) > 0 {
		container = strings.Join(nsStack, ".")
		fqn = container + "." + simple
	}

	st.declare(fqn, container, SymbolLocation{
		Path:      doc.path,
		StartByte: nameNode.StartByte(),
		EndByte:   nameNode.EndByte(),
	})
}

func splitDots(name string) []string {
	if name == "" {
		return nil
	}

	return strings.Split(name, ".")
}
