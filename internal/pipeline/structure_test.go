package pipeline

import (
	"testing"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/jsonvalue"
)

func TestExploreObjectShape(t *testing.T) {
	v := parseVal(t, `{"name": "alice", "tags": ["a", "b", "c"]}`)

	result, err := Explore(v, 3, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	typ, ok := result.Value.Object.Get("type")
	if !ok || typ.Str != "object" {
		t.Fatalf("expected top-level type=object, got %+v", result.Value)
	}
	if _, ok := result.Value.Object.Get("sizeHint"); !ok {
		t.Fatalf("expected sizeHint on object summary")
	}
	if _, ok := result.Value.Object.Get("sample"); !ok {
		t.Fatalf("expected sample on object summary")
	}
}

func TestExploreArrayShape(t *testing.T) {
	v := parseVal(t, `[1, "two", true]`)

	result, err := Explore(v, 3, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	length, ok := result.Value.Object.Get("length")
	if !ok || length.Number != 3 {
		t.Fatalf("expected length=3, got %+v", result.Value)
	}
	histogram, ok := result.Value.Object.Get("elementTypeHistogram")
	if !ok || histogram.Object.Len() != 3 {
		t.Fatalf("expected 3 distinct types in histogram, got %+v", histogram)
	}
}

func TestExploreStringShapeTruncatesAt120(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	v := jsonvalue.Str(string(long))

	result, err := Explore(v, 3, 3)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	firstN, ok := result.Value.Object.Get("firstNChars")
	if !ok || len(firstN.Str) != structureSampleChars {
		t.Fatalf("expected firstNChars truncated to %d, got %d", structureSampleChars, len(firstN.Str))
	}
}
