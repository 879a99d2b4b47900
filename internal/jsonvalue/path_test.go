package jsonvalue

import "testing"

func TestParsePathSegments(t *testing.T) {
	cases := []struct {
		expr string
		want []SegmentKind
	}{
		{"a.b.c", []SegmentKind{SegField, SegField, SegField}},
		{"orders[].name", []SegmentKind{SegField, SegArrayElements, SegField}},
		{"*.id", []SegmentKind{SegWildcard, SegField}},
		{"_keys", []SegmentKind{SegKeys}},
	}

	for _, c := range cases {
		p := ParsePath(c.expr)
		if len(p.Segments) != len(c.want) {
			t.Fatalf("ParsePath(%q): got %d segments, want %d", c.expr, len(p.Segments), len(c.want))
		}
		for i, kind := range c.want {
			if p.Segments[i].Kind != kind {
				t.Errorf("ParsePath(%q) segment %d: got kind %d, want %d", c.expr, i, p.Segments[i].Kind, kind)
			}
		}
	}
}

func TestMatchesStepField(t *testing.T) {
	p := ParsePath("user.name")
	ok, next := p.MatchesStep(false, "user")
	if !ok {
		t.Fatalf("expected first segment to match key %q", "user")
	}
	if len(next.Segments) != 1 || next.Segments[0].Name != "name" {
		t.Fatalf("expected remaining path to be [name], got %+v", next.Segments)
	}

	ok, _ = p.MatchesStep(false, "other")
	if ok {
		t.Fatalf("expected no match for unrelated key")
	}
}

func TestMatchesStepArrayElements(t *testing.T) {
	p := ParsePath("orders[].total")
	ok, next := p.MatchesStep(false, "orders")
	if !ok {
		t.Fatalf("expected field segment to match")
	}
	ok, next = next.MatchesStep(true, "")
	if !ok {
		t.Fatalf("expected array-elements segment to match when entering an array element")
	}
	if !next.IsExhausted() && (len(next.Segments) != 1 || next.Segments[0].Name != "total") {
		t.Fatalf("expected remaining path to be [total], got %+v", next.Segments)
	}
}

func TestIsKeysOnly(t *testing.T) {
	if !ParsePath("_keys").IsKeysOnly() {
		t.Error("expected _keys to be keys-only")
	}
	if ParsePath("a.b").IsKeysOnly() {
		t.Error("expected a.b not to be keys-only")
	}
}
