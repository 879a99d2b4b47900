package jsonvalue

import "strings"

// SegmentKind tags one component of a parsed field path.
type SegmentKind int

const (
	SegField SegmentKind = iota
	SegArrayElements
	SegWildcard
	SegKeys
)

// Segment is one dotted component of a field expression such as
// "orders[].name" or "_keys".
type Segment struct {
	Kind SegmentKind
	Name string // meaningful only for SegField
}

// Path is a parsed field expression, ready for structural matching against
// a Value tree without re-parsing the original string on every visit.
type Path struct {
	Raw      string
	Segments []Segment
}

// ParsePath parses a single field expression using the grammar: dotted
// segments ("a.b.c"), the array-element marker ("orders[]"), the wildcard
// segment ("*"), and the terminal "_keys" path.
func ParsePath(expr string) Path {
	if expr == "_keys" {
		return Path{Raw: expr, Segments: []Segment{{Kind: SegKeys}}}
	}

	parts := strings.Split(expr, ".")
	segs := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if part == "*" {
			segs = append(segs, Segment{Kind: SegWildcard})
			continue
		}
		if strings.HasSuffix(part, "[]") {
			name := strings.TrimSuffix(part, "[]")
			segs = append(segs, Segment{Kind: SegField, Name: name})
			segs = append(segs, Segment{Kind: SegArrayElements})
			continue
		}
		segs = append(segs, Segment{Kind: SegField, Name: part})
	}
	return Path{Raw: expr, Segments: segs}
}

// ParsePaths parses a batch of field expressions.
func ParsePaths(exprs []string) []Path {
	out := make([]Path, len(exprs))
	for i, e := range exprs {
		out[i] = ParsePath(e)
	}
	return out
}

// walkPath is a cursor through a Segment list used while descending a
// Value tree; head() / rest() avoid repeated slicing allocations.
type walkPath struct {
	segs []Segment
}

func (w walkPath) done() bool          { return len(w.segs) == 0 }
func (w walkPath) head() Segment       { return w.segs[0] }
func (w walkPath) rest() walkPath      { return walkPath{segs: w.segs[1:]} }

// MatchesStep reports whether path could still produce a leaf match
// starting from the current descent step described by key (an object key
// being entered) or "" when entering an array element. It consumes one
// segment per call, except that a field segment met at an array element is
// returned unconsumed (see below). It is used by the include/exclude
// projection walk to decide whether to keep descending into a child.
func (p Path) MatchesStep(atArrayElement bool, key string) (bool, Path) {
	w := walkPath{segs: p.Segments}
	if w.done() {
		return false, p
	}
	switch w.head().Kind {
	case SegKeys:
		return false, p
	case SegArrayElements:
		if !atArrayElement {
			return false, p
		}
		return true, Path{Raw: p.Raw, Segments: w.rest().segs}
	case SegWildcard:
		if atArrayElement {
			return false, p
		}
		return true, Path{Raw: p.Raw, Segments: w.rest().segs}
	case SegField:
		if atArrayElement {
			// A dotted field name reaching an array implicitly maps over
			// its elements, the same as an explicit "[]" marker, so
			// "users.name" matches every element of a "users" array
			// without the caller having to write "users[].name".
			return true, p
		}
		if w.head().Name != key {
			return false, p
		}
		return true, Path{Raw: p.Raw, Segments: w.rest().segs}
	}
	return false, p
}

// IsExhausted reports whether the path has no remaining segments, meaning
// the current node IS a leaf the path refers to.
func (p Path) IsExhausted() bool {
	return len(p.Segments) == 0
}

// IsKeysOnly reports whether this path is exactly "_keys".
func (p Path) IsKeysOnly() bool {
	return len(p.Segments) == 1 && p.Segments[0].Kind == SegKeys
}
