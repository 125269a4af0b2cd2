package differ

import (
	"encoding/json"
	"testing"
)

// node builds a minimal generic syntax-tree node with position metadata.
func node(kind string, line int, extra map[string]any) map[string]any {
	m := map[string]any{
		"kind":  kind,
		"start": line * 10,
		"end":   line*10 + 5,
		"loc": map[string]any{
			"start": map[string]any{"line": line, "column": 0},
			"end":   map[string]any{"line": line, "column": 5},
		},
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func TestCompareReflexive(t *testing.T) {
	tree := node("program", 1, map[string]any{
		"children": []any{
			node("lexical_declaration", 1, map[string]any{
				"children": []any{
					node("variable_declarator", 1, map[string]any{
						"name":  node("identifier", 1, map[string]any{"text": "a"}),
						"value": node("number", 1, map[string]any{"text": "1"}),
					}),
				},
			}),
		},
	})

	if res := Compare(tree, tree); !res.Equal() {
		t.Fatalf("comparing a tree to itself produced %d record(s): %+v", len(res.Records), res.Records)
	}
}

func TestComparePositionInsensitive(t *testing.T) {
	left := node("program", 1, map[string]any{
		"body": node("expression_statement", 1, map[string]any{"text": "x"}),
	})
	// Same shape, every position shifted.
	right := node("program", 7, map[string]any{
		"body": node("expression_statement", 9, map[string]any{"text": "x"}),
	})

	if res := Compare(left, right); !res.Equal() {
		t.Fatalf("position-only changes produced records: %+v", res.Records)
	}
}

func TestComparePositionKeysSuppressedAtAnyDepth(t *testing.T) {
	// "line" and "column" are reserved even when nested under an ordinary key.
	left := map[string]any{"meta": map[string]any{"line": 1, "column": 2}}
	right := map[string]any{"meta": map[string]any{"line": 99, "column": 98}}

	if res := Compare(left, right); !res.Equal() {
		t.Fatalf("nested position keys produced records: %+v", res.Records)
	}
}

func TestCompareEditedLeaf(t *testing.T) {
	left := node("number", 1, map[string]any{"text": "1"})
	right := node("number", 1, map[string]any{"text": "2"})

	res := Compare(left, right)
	if res.Equal() {
		t.Fatal("expected a difference")
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(res.Records), res.Records)
	}
	rec := res.Records[0]
	if rec.Kind != Edited {
		t.Errorf("kind = %v, want %v", rec.Kind, Edited)
	}
	if got := rec.Path.String(); got != "text" {
		t.Errorf("path = %q, want %q", got, "text")
	}
	if rec.Left != "1" || rec.Right != "2" {
		t.Errorf("values = (%v, %v), want (1, 2)", rec.Left, rec.Right)
	}
}

func TestCompareAddedAndDeletedKeys(t *testing.T) {
	left := map[string]any{"kind": "x", "only_left": "l"}
	right := map[string]any{"kind": "x", "only_right": "r"}

	res := Compare(left, right)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(res.Records), res.Records)
	}

	// Left's keys are visited first, so the deletion precedes the addition.
	if res.Records[0].Kind != Deleted || res.Records[0].Path.String() != "only_left" {
		t.Errorf("record 0 = %v %q, want Deleted only_left", res.Records[0].Kind, res.Records[0].Path)
	}
	if res.Records[1].Kind != Added || res.Records[1].Path.String() != "only_right" {
		t.Errorf("record 1 = %v %q, want Added only_right", res.Records[1].Kind, res.Records[1].Path)
	}
}

func TestCompareContainerVersusScalar(t *testing.T) {
	left := map[string]any{"value": map[string]any{"kind": "number"}}
	right := map[string]any{"value": "1"}

	res := Compare(left, right)
	if len(res.Records) != 1 || res.Records[0].Kind != Edited {
		t.Fatalf("expected one Edited record, got %+v", res.Records)
	}
	if got := res.Records[0].Path.String(); got != "value" {
		t.Errorf("path = %q, want %q", got, "value")
	}
}

// A mid-array insertion is reported positionally: one edit per shifted index
// plus a trailing array record. There is no alignment.
func TestCompareArrayInsertionCascades(t *testing.T) {
	left := map[string]any{"children": []any{"a", "b", "c"}}
	right := map[string]any{"children": []any{"a", "X", "b", "c"}}

	res := Compare(left, right)
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(res.Records), res.Records)
	}

	want := []struct {
		path string
		kind Kind
	}{
		{"children[1]", Edited},
		{"children[2]", Edited},
		{"children[3]", ArrayChange},
	}
	for i, w := range want {
		rec := res.Records[i]
		if rec.Path.String() != w.path || rec.Kind != w.kind {
			t.Errorf("record %d = %v %q, want %v %q", i, rec.Kind, rec.Path, w.kind, w.path)
		}
	}
	if last := res.Records[2]; last.Left != nil || last.Right != "c" {
		t.Errorf("trailing record values = (%v, %v), want (nil, c)", last.Left, last.Right)
	}
}

func TestCompareArrayShrink(t *testing.T) {
	res := Compare([]any{"a", "b"}, []any{"a"})
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %+v", res.Records)
	}
	rec := res.Records[0]
	if rec.Kind != ArrayChange || rec.Left != "b" || rec.Right != nil {
		t.Errorf("record = %v (%v, %v), want ArrayChange (b, nil)", rec.Kind, rec.Left, rec.Right)
	}
}

func TestCompareRecordOrderIsDeterministic(t *testing.T) {
	left := map[string]any{"b": 1, "a": 1, "c": 1}
	right := map[string]any{"b": 2, "a": 2, "c": 2}

	res := Compare(left, right)
	var got []string
	for _, rec := range res.Records {
		got = append(got, rec.Path.String())
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record order = %v, want %v", got, want)
		}
	}
}

// The in-memory tree stores ints; its JSON round-trip decodes to float64.
// Scalar comparison must treat those as equal.
func TestCompareNumericAcrossJSONRoundTrip(t *testing.T) {
	left := map[string]any{"kind": "x", "depth": 3}

	data, err := json.Marshal(left)
	if err != nil {
		t.Fatal(err)
	}
	var right any
	if err := json.Unmarshal(data, &right); err != nil {
		t.Fatal(err)
	}

	if res := Compare(left, right); !res.Equal() {
		t.Fatalf("JSON round-trip produced records: %+v", res.Records)
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{Path{}, ""},
		{Path{{Key: "body"}}, "body"},
		{Path{{Key: "children"}, {Idx: 0, Index: true}, {Key: "value"}}, "children[0].value"},
		{Path{{Idx: 2, Index: true}, {Key: "text"}}, "[2].text"},
	}
	for _, tc := range tests {
		if got := tc.path.String(); got != tc.want {
			t.Errorf("Path%v.String() = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestIsPositionKey(t *testing.T) {
	for _, key := range []string{"start", "end", "loc", "line", "column"} {
		if !IsPositionKey(key) {
			t.Errorf("IsPositionKey(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"kind", "text", "children", "value", "Start", ""} {
		if IsPositionKey(key) {
			t.Errorf("IsPositionKey(%q) = true, want false", key)
		}
	}
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Added, "added"},
		{Deleted, "deleted"},
		{Edited, "edited"},
		{ArrayChange, "array-changed"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", int(tc.kind), got, tc.want)
		}
		data, err := json.Marshal(tc.kind)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `"`+tc.want+`"` {
			t.Errorf("marshaled kind = %s, want %q", data, tc.want)
		}
	}
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(Record{Path: Path{{Key: "text"}}, Kind: Edited, Left: "1", Right: "2"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"path":"text","kind":"edited","left":"1","right":"2"}`
	if string(data) != want {
		t.Errorf("marshaled record = %s, want %s", data, want)
	}
}
