package parser

// Position is a point in source text. Lines are 1-based, columns 0-based,
// matching the diagnostics most editors jump to.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Loc spans a node's source range.
type Loc struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is one vertex of a parsed syntax tree. Fields holds children reachable
// through a named grammar field (e.g. "left", "operator"); a field that the
// grammar attaches to several children (a switch case's body statements) keeps
// them all, in source order. Children holds the remaining named children.
// Token leaves carry their source text so identifiers and literal values
// participate in comparison.
//
// A Node is built once by Parse and read-only afterward.
type Node struct {
	Kind     string
	Text     string
	Start    int
	End      int
	Loc      Loc
	Fields   map[string][]*Node
	Children []*Node
}

// Generic converts the tree into the JSON-shaped form the differ and the
// persisted artifacts use: maps, slices and scalars only. Field children are
// flattened into the node's own map under their field names; positional
// children land under "children". The "start", "end" and "loc" keys are the
// position metadata the differ is expected to ignore.
func (n *Node) Generic() map[string]any {
	m := map[string]any{
		"kind":  n.Kind,
		"start": n.Start,
		"end":   n.End,
		"loc": map[string]any{
			"start": map[string]any{"line": n.Loc.Start.Line, "column": n.Loc.Start.Column},
			"end":   map[string]any{"line": n.Loc.End.Line, "column": n.Loc.End.Column},
		},
	}
	if n.Text != "" {
		m["text"] = n.Text
	}
	for name, nodes := range n.Fields {
		if len(nodes) == 1 {
			m[name] = nodes[0].Generic()
			continue
		}
		values := make([]any, len(nodes))
		for i, fn := range nodes {
			values[i] = fn.Generic()
		}
		m[name] = values
	}
	if len(n.Children) > 0 {
		children := make([]any, len(n.Children))
		for i, child := range n.Children {
			children[i] = child.Generic()
		}
		m["children"] = children
	}
	return m
}
