package csharp

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/c_sharp"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

var language = sitter.NewLanguage(c_sharp.GetLanguage())

// parserPool hands out tree-sitter parsers configured for C#. Parsers are
// not safe for concurrent use, so each goroutine checks one out.
var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(language)

		return p
	},
}

// parsedDocument pairs a syntax tree with the document it came from.
type parsedDocument struct {
	path string // repository-relative path
	text []byte
	tree *sitter.Tree
	root sitter.Node
}

func parseSource(ctx context.Context, path string, text []byte) (*parsedDocument, error) {
	p, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("parser pool returned unexpected type")
	}
	defer parserPool.Put(p)

	tree, err := p.ParseString(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("parse %s: empty syntax tree", path)
	}

	return &parsedDocument{path: path, text: text, tree: tree, root: root}, nil
}
