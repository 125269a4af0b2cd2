package parser

import (
	"errors"
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// language is the single grammar used for the whole run. Languages are
// immutable and safe to share across parsers and goroutines.
var language = tree_sitter.NewLanguage(tree_sitter_javascript.Language())

// ParseError reports source text the grammar rejects, or a source file that
// could not be read. Line is 1-based and zero when no position is known.
type ParseError struct {
	Path string
	Line int
	Col  int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile reads and parses a JavaScript file. A read failure is reported as
// a ParseError so a missing counterpart file surfaces here with its path.
func ParseFile(path string) (*Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, src)
}

// Parse parses source text into a syntax tree. Any ERROR or missing node in
// the parse makes the whole parse fail; path only labels the error.
func Parse(path string, src []byte) (*Node, error) {
	p := tree_sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(language); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	tree := p.Parse(src, nil)
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstErrorNode(root); bad != nil {
		pos := bad.StartPosition()
		msg := "syntax error"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing %s", bad.Kind())
		}
		return nil, &ParseError{
			Path: path,
			Line: int(pos.Row) + 1,
			Col:  int(pos.Column),
			Err:  errors.New(msg),
		}
	}
	return convert(root, src), nil
}

// firstErrorNode finds the shallowest ERROR or missing node, preferring the
// earliest child. Returns nil for a clean tree.
func firstErrorNode(n *tree_sitter.Node) *tree_sitter.Node {
	if !n.HasError() {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if bad := firstErrorNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	// HasError was set but no child claims it; report this node.
	return n
}

// convert rebuilds a tree-sitter node as a Node. Punctuation (unnamed
// children without a field name) and comments are dropped: they either have
// no structural content or, for comments, none the grammar models. Children
// with a field name are kept even when unnamed so tokens like operators
// survive as text leaves.
func convert(n *tree_sitter.Node, src []byte) *Node {
	start, end := n.StartPosition(), n.EndPosition()
	node := &Node{
		Kind:  n.Kind(),
		Start: int(n.StartByte()),
		End:   int(n.EndByte()),
		Loc: Loc{
			Start: Position{Line: int(start.Row) + 1, Column: int(start.Column)},
			End:   Position{Line: int(end.Row) + 1, Column: int(end.Column)},
		},
	}

	// Only genuine tokens carry text. A node whose children are all dropped
	// (an empty block, say) must not: its raw source includes formatting.
	if n.ChildCount() == 0 {
		node.Text = string(src[n.StartByte():n.EndByte()])
		return node
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == "comment" {
			continue
		}
		if field := n.FieldNameForChild(uint32(i)); field != "" {
			if node.Fields == nil {
				node.Fields = make(map[string][]*Node)
			}
			node.Fields[field] = append(node.Fields[field], convert(child, src))
			continue
		}
		if child.IsNamed() {
			node.Children = append(node.Children, convert(child, src))
		}
	}
	return node
}
