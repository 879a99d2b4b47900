package pipeline

import (
	"fmt"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/jsonvalue"
)

const structureSampleChars = 120

// Explore produces a depth-bounded structural summary of v: for objects a
// {type, sizeHint, sample} whose sample maps each described key to that
// value's own summary, for arrays a {length, elementTypeHistogram,
// sample}, and for strings a {length, firstNChars} with N=120. Descent stops at maxDepth; sampleSize caps how many array
// elements or object keys are described at each level.
func Explore(v jsonvalue.Value, maxDepth, sampleSize int) (Result, error) {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	if sampleSize <= 0 {
		sampleSize = 3
	}
	out := exploreNode(v, maxDepth, sampleSize)
	return ValueResult(out, fmt.Sprintf("explored to depth %d", maxDepth)), nil
}

func exploreNode(v jsonvalue.Value, depth, sampleSize int) jsonvalue.Value {
	switch v.Kind {
	case jsonvalue.KindObject:
		m := jsonvalue.NewOrderedMap()
		keys := v.Object.Keys()
		for i, k := range keys {
			if i >= sampleSize {
				break
			}
			val, _ := v.Object.Get(k)
			m.Set(k, describeField(val, depth, sampleSize))
		}
		wrapper := jsonvalue.NewOrderedMap()
		wrapper.Set("type", jsonvalue.Str("object"))
		wrapper.Set("sizeHint", jsonvalue.Num(float64(len(keys))))
		wrapper.Set("sample", jsonvalue.Obj(m))
		return jsonvalue.Obj(wrapper)
	case jsonvalue.KindArray:
		return describeArray(v, depth, sampleSize)
	case jsonvalue.KindString:
		return describeString(v)
	default:
		m := jsonvalue.NewOrderedMap()
		m.Set("type", jsonvalue.Str(jsonvalue.TypeName(v)))
		return jsonvalue.Obj(m)
	}
}

// describeField renders one object value at the current depth: a nested
// object or array is recursed into only while depth remains, otherwise
// it's reported by type and size alone.
func describeField(v jsonvalue.Value, depth, sampleSize int) jsonvalue.Value {
	if depth <= 0 {
		m := jsonvalue.NewOrderedMap()
		m.Set("type", jsonvalue.Str(jsonvalue.TypeName(v)))
		m.Set("sizeHint", jsonvalue.Num(float64(sizeHint(v))))
		return jsonvalue.Obj(m)
	}
	switch v.Kind {
	case jsonvalue.KindObject:
		return exploreNode(v, depth-1, sampleSize)
	case jsonvalue.KindArray:
		return describeArray(v, depth-1, sampleSize)
	case jsonvalue.KindString:
		return describeString(v)
	default:
		m := jsonvalue.NewOrderedMap()
		m.Set("type", jsonvalue.Str(jsonvalue.TypeName(v)))
		return jsonvalue.Obj(m)
	}
}

func describeArray(v jsonvalue.Value, depth, sampleSize int) jsonvalue.Value {
	histogram := jsonvalue.NewOrderedMap()
	for _, item := range v.Array {
		t := jsonvalue.TypeName(item)
		cur, ok := histogram.Get(t)
		n := 0.0
		if ok {
			n = cur.Number
		}
		histogram.Set(t, jsonvalue.Num(n+1))
	}

	sample := make([]jsonvalue.Value, 0, sampleSize)
	for i, item := range v.Array {
		if i >= sampleSize {
			break
		}
		sample = append(sample, describeField(item, depth, sampleSize))
	}

	m := jsonvalue.NewOrderedMap()
	m.Set("type", jsonvalue.Str("array"))
	m.Set("length", jsonvalue.Num(float64(len(v.Array))))
	m.Set("elementTypeHistogram", jsonvalue.Obj(histogram))
	m.Set("sample", jsonvalue.Arr(sample))
	return jsonvalue.Obj(m)
}

func describeString(v jsonvalue.Value) jsonvalue.Value {
	runes := []rune(v.Str)
	n := structureSampleChars
	if n > len(runes) {
		n = len(runes)
	}
	m := jsonvalue.NewOrderedMap()
	m.Set("type", jsonvalue.Str("string"))
	m.Set("length", jsonvalue.Num(float64(len(runes))))
	m.Set("firstNChars", jsonvalue.Str(string(runes[:n])))
	return jsonvalue.Obj(m)
}

func sizeHint(v jsonvalue.Value) int {
	switch v.Kind {
	case jsonvalue.KindObject:
		return v.Object.Len()
	case jsonvalue.KindArray:
		return len(v.Array)
	case jsonvalue.KindString:
		return len(v.Str)
	default:
		return 0
	}
}
