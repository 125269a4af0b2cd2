// Package differ computes structural differences between two JSON-shaped
// values: nested map[string]any, []any and scalars. Differences found at or
// under a position-metadata key (start, end, loc, line, column) are
// suppressed at every depth, so two trees that differ only in source
// positions compare as equal.
package differ

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind classifies a single difference record.
type Kind int

const (
	// Added means the key exists only on the right-hand side.
	Added Kind = iota
	// Deleted means the key exists only on the left-hand side.
	Deleted
	// Edited means both sides exist but their values differ.
	Edited
	// ArrayChange means an array index exists on only one side because the
	// arrays have different lengths.
	ArrayChange
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Edited:
		return "edited"
	case ArrayChange:
		return "array-changed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalJSON renders the kind as its name so persisted diffs stay readable.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Step is one segment of a structural path: a map key, or an array index
// when Index is set.
type Step struct {
	Key   string
	Idx   int
	Index bool
}

// Path locates a value relative to the compared roots.
type Path []Step

// String renders the path in property access form, e.g.
// "children[0].declaration.value.text".
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		if s.Index {
			fmt.Fprintf(&b, "[%d]", s.Idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// MarshalJSON renders the path as its string form.
func (p Path) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", p.String())), nil
}

// Record describes one structural difference. Left and Right hold the values
// at Path on each side; the one that does not exist is nil.
type Record struct {
	Path  Path `json:"path"`
	Kind  Kind `json:"kind"`
	Left  any  `json:"left,omitempty"`
	Right any  `json:"right,omitempty"`
}

// Result is the outcome of comparing two values. Records are ordered by the
// depth-first visit over the left value's shape, array indexes ascending.
type Result struct {
	Records []Record
}

// Equal reports whether the comparison found no structural difference.
func (r Result) Equal() bool {
	return len(r.Records) == 0
}

// positionKeys is the closed set of keys carrying position metadata.
var positionKeys = map[string]bool{
	"start":  true,
	"end":    true,
	"loc":    true,
	"line":   true,
	"column": true,
}

// IsPositionKey reports whether a map key names position metadata.
func IsPositionKey(key string) bool {
	return positionKeys[key]
}

// Compare computes the structural differences between two JSON-shaped values.
// Comparing any value to itself yields an equal Result.
func Compare(left, right any) Result {
	var res Result
	compare(nil, left, right, &res)
	return res
}

func compare(path Path, left, right any, out *Result) {
	switch l := left.(type) {
	case map[string]any:
		r, ok := right.(map[string]any)
		if !ok {
			out.add(path, Edited, left, right)
			return
		}
		compareMaps(path, l, r, out)
	case []any:
		r, ok := right.([]any)
		if !ok {
			out.add(path, Edited, left, right)
			return
		}
		compareSlices(path, l, r, out)
	default:
		if !scalarEqual(left, right) {
			out.add(path, Edited, left, right)
		}
	}
}

// compareMaps walks the left map's keys in sorted order, then reports
// right-only keys as additions. Position keys are skipped outright, which is
// what suppresses every difference nested beneath them.
func compareMaps(path Path, left, right map[string]any, out *Result) {
	for _, key := range sortedKeys(left) {
		if IsPositionKey(key) {
			continue
		}
		at := append(path, Step{Key: key})
		rv, ok := right[key]
		if !ok {
			out.add(at, Deleted, left[key], nil)
			continue
		}
		compare(at, left[key], rv, out)
	}
	for _, key := range sortedKeys(right) {
		if IsPositionKey(key) {
			continue
		}
		if _, ok := left[key]; !ok {
			out.add(append(path, Step{Key: key}), Added, nil, right[key])
		}
	}
}

// compareSlices compares elements positionally; there is no alignment. An
// element inserted mid-array therefore shows up as one edit per shifted
// index plus trailing array-length records.
func compareSlices(path Path, left, right []any, out *Result) {
	shared := len(left)
	if len(right) < shared {
		shared = len(right)
	}
	for i := 0; i < shared; i++ {
		compare(append(path, Step{Idx: i, Index: true}), left[i], right[i], out)
	}
	for i := shared; i < len(left); i++ {
		out.add(append(path, Step{Idx: i, Index: true}), ArrayChange, left[i], nil)
	}
	for i := shared; i < len(right); i++ {
		out.add(append(path, Step{Idx: i, Index: true}), ArrayChange, nil, right[i])
	}
}

// scalarEqual compares leaves. Numeric values compare by value across types
// so an in-memory int tree matches its JSON round-trip (float64) form.
func scalarEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if _, ok := toFloat(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r *Result) add(path Path, kind Kind, left, right any) {
	// The shared path prefix is reused across recursive calls; copy it so
	// later appends cannot clobber an emitted record.
	owned := append(Path(nil), path...)
	r.Records = append(r.Records, Record{Path: owned, Kind: kind, Left: left, Right: right})
}
