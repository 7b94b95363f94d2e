package csharp

import sitter "github.com/alexaandru/go-tree-sitter-bare"

// identifierText returns the raw source text spanned by n, or "" for a null
// node or an out-of-range span.
func identifierText(n sitter.Node, source []byte) string {
	if n.IsNull() {
		return ""
	}

	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}

	return string(source[start:end])
}
