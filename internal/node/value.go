package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Value is a sealed interface for prop values.
// Only Str, Int, Bool, List, and Obj implement it.
// NO float type - floats break deterministic encoding and are forbidden.
type Value interface {
	value() // Sealed - only these types implement it
}

// Str is a string prop value.
type Str string

func (Str) value() {}

// Int is an integer prop value. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool is a boolean prop value.
type Bool bool

func (Bool) value() {}

// List is an ordered sequence of prop values.
type List []Value

func (List) value() {}

// Obj is a map of string keys to prop values.
// Use SortedKeys for deterministic iteration.
type Obj map[string]Value

func (Obj) value() {}

// Props holds the named props attached to an element or offered to a
// function payload. Keys iterate deterministically via SortedKeys.
type Props map[string]Value

// SortedKeys returns the object's keys in ascending byte order.
func (o Obj) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedKeys returns the prop names in ascending byte order.
func (p Props) SortedKeys() []string {
	return Obj(p).SortedKeys()
}

// Clone returns an independent copy of the props map.
// Values are immutable by construction, so a shallow copy of each entry
// is sufficient for List and Obj as long as callers never mutate them
// in place; Clone copies nested containers anyway to keep passes pure.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case List:
		out := make(List, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	case Obj:
		out := make(Obj, len(val))
		for k, elem := range val {
			out[k] = cloneValue(elem)
		}
		return out
	default:
		return v
	}
}

// ValueFromAny converts a decoded YAML/JSON value into a Value.
// Floats are rejected; nulls are rejected - a prop is either present with a
// concrete value or absent entirely.
func ValueFromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in props: a prop is present or absent, never null")
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden in props: %s", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(n), nil
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in props: %v", val)
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			converted, err := ValueFromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list[i] = converted
		}
		return list, nil
	case map[string]any:
		obj := make(Obj, len(val))
		for k, elem := range val {
			converted, err := ValueFromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported prop value type: %T", v)
	}
}

// PropsFromAny converts a decoded map into Props.
func PropsFromAny(m map[string]any) (Props, error) {
	if m == nil {
		return nil, nil
	}
	props := make(Props, len(m))
	for k, v := range m {
		converted, err := ValueFromAny(v)
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", k, err)
		}
		props[k] = converted
	}
	return props, nil
}

// MarshalValue marshals a Value to JSON bytes with sorted object keys.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Str:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Bool:
		return json.Marshal(bool(val))
	case List:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := MarshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Obj:
		return marshalObj(val)
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

func marshalObj(o Obj) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := MarshalValue(o[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
