package node

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for a renderable tree.
// This is the only serialization used for golden-file comparison and
// idempotence checks, so it must be byte-stable:
//
//  1. Fixed element field order (kind first, then children, identity,
//     props, type ascending); prop object keys sorted ascending
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Empty props and children are omitted entirely
func MarshalCanonical(r Renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCanonicalList encodes an ordered node list as a JSON array.
func MarshalCanonicalList(nodes []Renderable) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(&buf, n); err != nil {
			return nil, fmt.Errorf("node[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, r Renderable) error {
	switch n := r.(type) {
	case Text:
		buf.WriteString(`{"kind":"text","text":`)
		writeCanonicalString(buf, string(n))
		buf.WriteByte('}')
		return nil
	case Number:
		buf.WriteString(`{"kind":"number","value":`)
		buf.WriteString(strconv.FormatInt(int64(n), 10))
		buf.WriteByte('}')
		return nil
	case *Element:
		return writeCanonicalElement(buf, n)
	case nil:
		return fmt.Errorf("nil renderable cannot be canonically encoded")
	default:
		return fmt.Errorf("unsupported renderable type: %T", r)
	}
}

func writeCanonicalElement(buf *bytes.Buffer, el *Element) error {
	buf.WriteString(`{"kind":"element"`)
	if len(el.Children) > 0 {
		buf.WriteString(`,"children":[`)
		for i, c := range el.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, c); err != nil {
				return fmt.Errorf("child[%d] of %s: %w", i, el.Type, err)
			}
		}
		buf.WriteByte(']')
	}
	if el.Identity != "" {
		buf.WriteString(`,"identity":`)
		writeCanonicalString(buf, el.Identity)
	}
	if len(el.Props) > 0 {
		buf.WriteString(`,"props":{`)
		for i, k := range el.Props.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonicalValue(buf, el.Props[k]); err != nil {
				return fmt.Errorf("prop %q of %s: %w", k, el.Type, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`,"type":`)
	writeCanonicalString(buf, el.Type)
	buf.WriteByte('}')
	return nil
}

func writeCanonicalValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Str:
		writeCanonicalString(buf, string(val))
		return nil
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
		return nil
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalValue(buf, elem); err != nil {
				return fmt.Errorf("list[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case Obj:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonicalValue(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case nil:
		return fmt.Errorf("nil prop value cannot be canonically encoded")
	default:
		return fmt.Errorf("unsupported prop value type: %T", v)
	}
}

// writeCanonicalString writes an NFC-normalized JSON string without HTML
// escaping. Control characters use the shortest escape form.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else if r == utf8.RuneError {
				buf.WriteString(`�`)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
