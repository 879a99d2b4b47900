// Package jsonvalue models arbitrary JSON as a tagged sum that preserves
// object key insertion order, so projection and exploration can walk,
// prune, and re-serialize structures without losing field ordering the way
// a plain map[string]any would.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a tagged-sum JSON value: exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	// NumberLiteral preserves the original textual form of a number so
	// re-serialization doesn't introduce floating-point drift for large
	// integers.
	NumberLiteral string
	Str           string
	Array         []Value
	Object        *OrderedMap
}

// OrderedMap is a string-keyed map that remembers insertion order.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value)}
}

func (m *OrderedMap) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) Len() int { return len(m.keys) }

// Null, Str, Num, Boolean, Arr and Obj are small constructors used throughout
// the processors when building result structures by hand.

func Null() Value            { return Value{Kind: KindNull} }
func Str(s string) Value     { return Value{Kind: KindString, Str: s} }
func Boolean(b bool) Value   { return Value{Kind: KindBool, Bool: b} }
func Num(n float64) Value    { return Value{Kind: KindNumber, Number: n} }
func Arr(v []Value) Value    { return Value{Kind: KindArray, Array: v} }
func Obj(m *OrderedMap) Value {
	return Value{Kind: KindObject, Object: m}
}

// Parse decodes raw JSON text into a Value, preserving object key order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("jsonvalue: unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Obj(m), nil
		case '[':
			var arr []Value
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Arr(arr), nil
		}
	case json.Number:
		f, _ := t.Float64()
		return Value{Kind: KindNumber, Number: f, NumberLiteral: t.String()}, nil
	case string:
		return Str(t), nil
	case bool:
		return Boolean(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("jsonvalue: unexpected token %v", tok)
}

// FromAny converts a decoded any (as produced by encoding/json into
// interface{}, or passed through from an MCP argument map) into a Value.
// Object key order is not recoverable from a plain map, so keys are sorted
// for determinism; prefer Parse when byte-for-byte order matters.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Boolean(t)
	case float64:
		return Num(t)
	case int:
		return Num(float64(t))
	case string:
		return Str(t)
	case []any:
		arr := make([]Value, len(t))
		for i, item := range t {
			arr[i] = FromAny(item)
		}
		return Arr(arr)
	case map[string]any:
		m := NewOrderedMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, FromAny(t[k]))
		}
		return Obj(m)
	default:
		return Str(fmt.Sprintf("%v", t))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// Marshal serializes v back to JSON text, preserving object key order.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent serializes v to indented JSON text.
func MarshalIndent(v Value) ([]byte, error) {
	raw, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return raw, nil
	}
	return out.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		if v.NumberLiteral != "" {
			buf.WriteString(v.NumberLiteral)
		} else {
			buf.WriteString(strconv.FormatFloat(v.Number, 'g', -1, 64))
		}
	case KindString:
		enc, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.Array {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		if v.Object != nil {
			for i, key := range v.Object.Keys() {
				if i > 0 {
					buf.WriteByte(',')
				}
				keyEnc, err := json.Marshal(key)
				if err != nil {
					return err
				}
				buf.Write(keyEnc)
				buf.WriteByte(':')
				val, _ := v.Object.Get(key)
				if err := writeValue(buf, val); err != nil {
					return err
				}
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// TypeName returns the spec's lowercase type name for v ("object", "array",
// "string", "boolean", "number", "null").
func TypeName(v Value) string {
	switch v.Kind {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch v.Kind {
	case KindArray:
		arr := make([]Value, len(v.Array))
		for i, item := range v.Array {
			arr[i] = Clone(item)
		}
		return Arr(arr)
	case KindObject:
		m := NewOrderedMap()
		if v.Object != nil {
			for _, k := range v.Object.Keys() {
				val, _ := v.Object.Get(k)
				m.Set(k, Clone(val))
			}
		}
		return Obj(m)
	default:
		return v
	}
}
