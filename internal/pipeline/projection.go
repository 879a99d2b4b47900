package pipeline

import (
	"fmt"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/jsonvalue"
)

// Project narrows a cached JSON value down to the requested fields
// (mode "include") or removes them (mode "exclude"). Fields use the
// dotted / "[]" / "*" / "_keys" grammar parsed by jsonvalue.ParsePath.
//
// Containers pruned down to nothing are preserved as empty objects or
// arrays rather than dropped, so a caller can tell "field existed but had
// no matching children" apart from "field never existed".
func Project(v jsonvalue.Value, fields []string, mode string) (Result, error) {
	const op = "pipeline.Project"

	if len(fields) == 0 {
		return Result{}, errf(op, "at least one field is required")
	}

	if mode == "include" && v.Kind == jsonvalue.KindObject {
		for _, f := range fields {
			if f == "_keys" {
				keys := v.Object.Keys()
				arr := make([]jsonvalue.Value, len(keys))
				for i, k := range keys {
					arr[i] = jsonvalue.Str(k)
				}
				out := jsonvalue.Obj(jsonvalue.NewOrderedMap())
				out.Object.Set("_keys", jsonvalue.Arr(arr))
				return ValueResult(out, fmt.Sprintf("listed %d top-level key(s)", len(keys))), nil
			}
		}
	}

	paths := jsonvalue.ParsePaths(fields)

	switch mode {
	case "", "include":
		out, _ := includeNode(v, paths)
		return ValueResult(out, fmt.Sprintf("included %d field path(s)", len(paths))), nil
	case "exclude":
		out, _ := excludeNode(v, paths)
		return ValueResult(out, fmt.Sprintf("excluded %d field path(s)", len(paths))), nil
	default:
		return Result{}, errf(op, "unknown projection mode %q", mode)
	}
}

// includeNode returns the projected subtree and whether the caller should
// keep it. Scalars that no path names exactly are dropped; objects and
// arrays are always kept (possibly empty) once something pointed at them.
func includeNode(v jsonvalue.Value, paths []jsonvalue.Path) (jsonvalue.Value, bool) {
	for _, p := range paths {
		if p.IsExhausted() {
			return jsonvalue.Clone(v), true
		}
	}

	switch v.Kind {
	case jsonvalue.KindObject:
		result := jsonvalue.NewOrderedMap()
		for _, key := range v.Object.Keys() {
			childPaths := stepAll(paths, false, key)
			if len(childPaths) == 0 {
				continue
			}
			childVal, _ := v.Object.Get(key)
			outVal, keep := includeNode(childVal, childPaths)
			if keep {
				result.Set(key, outVal)
			}
		}
		return jsonvalue.Obj(result), true
	case jsonvalue.KindArray:
		childPaths := stepAll(paths, true, "")
		if len(childPaths) == 0 {
			return jsonvalue.Arr(nil), true
		}
		newArr := make([]jsonvalue.Value, 0, len(v.Array))
		for _, item := range v.Array {
			outVal, keep := includeNode(item, childPaths)
			if keep {
				newArr = append(newArr, outVal)
			}
		}
		return jsonvalue.Arr(newArr), true
	default:
		return jsonvalue.Null(), false
	}
}

// excludeNode returns the subtree with every path's leaf removed. Once no
// remaining path descends into a branch, that branch is cloned untouched.
func excludeNode(v jsonvalue.Value, paths []jsonvalue.Path) (jsonvalue.Value, bool) {
	for _, p := range paths {
		if p.IsExhausted() {
			return jsonvalue.Null(), false
		}
	}

	if len(paths) == 0 {
		return jsonvalue.Clone(v), true
	}

	switch v.Kind {
	case jsonvalue.KindObject:
		result := jsonvalue.NewOrderedMap()
		for _, key := range v.Object.Keys() {
			childPaths := stepAll(paths, false, key)
			childVal, _ := v.Object.Get(key)
			outVal, keep := excludeNode(childVal, childPaths)
			if keep {
				result.Set(key, outVal)
			}
		}
		return jsonvalue.Obj(result), true
	case jsonvalue.KindArray:
		childPaths := stepAll(paths, true, "")
		newArr := make([]jsonvalue.Value, 0, len(v.Array))
		for _, item := range v.Array {
			outVal, keep := excludeNode(item, childPaths)
			if keep {
				newArr = append(newArr, outVal)
			}
		}
		return jsonvalue.Arr(newArr), true
	default:
		return v, true
	}
}

func stepAll(paths []jsonvalue.Path, atArrayElement bool, key string) []jsonvalue.Path {
	var out []jsonvalue.Path
	for _, p := range paths {
		if ok, next := p.MatchesStep(atArrayElement, key); ok {
			out = append(out, next)
		}
	}
	return out
}
