// # internal/syntax/syntax.go
package syntax

import (
	"extricrate/internal/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var rustLanguage = sitter.NewLanguage(tree_sitter_rust.Language())

// Tree is one parsed source file. Callers must Close it when done.
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// ParseRust parses Rust source text into a syntax tree. A tree whose root
// contains syntax errors is rejected rather than partially consumed.
func ParseRust(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(rustLanguage); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "set rust grammar")
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseFailed, "parse produced no tree")
	}

	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, errors.New(errors.CodeParseFailed, "source contains syntax errors")
	}

	return &Tree{tree: tree, source: source}, nil
}

func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

func (t *Tree) Source() []byte {
	return t.source
}

// Text returns the source text covered by a node.
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(t.source[node.StartByte():node.EndByte()])
}

// FieldText returns the text of a named field child, or "".
func (t *Tree) FieldText(node *sitter.Node, field string) string {
	if node == nil {
		return ""
	}
	return t.Text(node.ChildByFieldName(field))
}

type Position struct {
	Line   int
	Column int
}

// Span is an inclusive start/end extent, 1-based lines and columns.
type Span struct {
	Start Position
	End   Position
}

// NodeSpan converts tree-sitter's 0-based, end-exclusive positions into an
// inclusive 1-based span.
func NodeSpan(node *sitter.Node) Span {
	start := node.StartPosition()
	end := node.EndPosition()
	return Span{
		Start: Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   Position{Line: int(end.Row) + 1, Column: int(end.Column)},
	}
}
