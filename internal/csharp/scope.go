package csharp

import (
	"context"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Iovva/codeatlas/internal/model"
)

// PrimaryNamespace parses source and returns the namespace a document
// belongs to: a file-scoped namespace declaration wins outright; otherwise
// the first block-form namespace declaration encountered; otherwise
// model.GlobalNamespace.
func PrimaryNamespace(path string, text []byte) (string, error) {
	doc, err := parseSource(context.Background(), path, text)
	if err != nil {
		return "", err
	}

	return namespaceOf(doc), nil
}

func namespaceOf(doc *parsedDocument) string {
	count := doc.root.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := doc.root.NamedChild(i)
		if child.Type() == kindFileScopedNamespace {
			if name := identifierText(child.ChildByFieldName("name"), doc.text); name != "" {
				return name
			}
		}
	}

	if name, ok := firstBlockNamespace(doc.root, doc.text); ok {
		return name
	}

	return model.GlobalNamespace
}

func firstBlockNamespace(n sitter.Node, source []byte) (string, bool) {
	count := n.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == kindNamespaceDecl {
			if name := identifierText(child.ChildByFieldName("name"), source); name != "" {
				return name, true
			}
		}

		if name, ok := firstBlockNamespace(child, source); ok {
			return name, ok
		}
	}

	return "", false
}

// collectUsings gathers the target of every using directive in a document,
// in source order. Alias and static usings are included as-is; resolution
// treats the collected name as a plain namespace candidate.
func collectUsings(n sitter.Node, source []byte, out []string) []string {
	count := n.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == kindUsingDirective {
			if name, ok := findFirstName(child, source); ok {
				out = append(out, name)
			}

			continue
		}

		out = collectUsings(child, source, out)
	}

	return out
}

// findFirstName returns the text of the first identifier/qualified_name/
// generic_name descendant of n, used to pull the namespace target out of a
// using directive regardless of its exact internal shape (plain, static,
// aliased, or global).
func findFirstName(n sitter.Node, source []byte) (string, bool) {
	count := n.NamedChildCount()
	for i := uint32(0); i < count; i++ {
		child := n.NamedChild(i)

		switch child.Type() {
		case kindIdentifier, kindQualifiedName, kindGenericName, kindAliasQualifiedName:
			return identifierText(child, source), true
		}

		if name, ok := findFirstName(child, source); ok {
			return name, ok
		}
	}

	return "", false
}

// resolveIdentifier implements the "identifier -> symbol" semantic-model
// query: a dotted name is tried as an exact fully qualified match first;
// a bare name is tried against the declaring document's own namespace, then
// each using target in source order, then the global namespace, falling
// back to any symbol sharing that short name if none of those scopes match.
func resolveIdentifier(text, primaryNS string, usings []string, st *SymbolTable) (*Symbol, bool) {
	if text == "" {
		return nil, false
	}

	if sym, ok := st.LookupFQN(text); ok {
		return sym, true
	}

	short := text
	if idx := lastDot(text); idx >= 0 {
		short = text[idx+1:]
	}

	candidateNamespaces := make([]string, 0, len(usings)+2)
	if primaryNS != model.GlobalNamespace {
		candidateNamespaces = append(candidateNamespaces, primaryNS)
	}

	candidateNamespaces = append(candidateNamespaces, usings...)

	for _, ns := range candidateNamespaces {
		if sym, ok := st.LookupFQN(ns + "." + short); ok {
			return sym, true
		}
	}

	if sym, ok := st.LookupFQN(short); ok {
		return sym, true
	}

	if matches := st.LookupShortName(short); len(matches) > 0 {
		return matches[0], true
	}

	return nil, false
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}

	return -1
}
