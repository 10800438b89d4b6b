package schemaprep

import (
	"bytes"
	"fmt"

	j "github.com/goccy/go-json"
)

// Canonical encodes v on a single line with no insignificant whitespace.
// Object members keep their insertion order and numbers keep their literal
// text, so encoding the same value always yields the same bytes. HTML
// characters are not escaped.
func Canonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CanonicalString is Canonical returning a string.
func CanonicalString(v Value) (string, error) {
	b, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Indent encodes v like Canonical but with two-space indentation.
func Indent(v Value) ([]byte, error) {
	b, err := Canonical(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, b, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if !isJSONNumber(v.s) {
			return fmt.Errorf("schemaprep: invalid number literal %q", v.s)
		}
		buf.WriteString(v.s)
	case KindString:
		return writeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, it := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeString(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, p.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("schemaprep: cannot encode %s value", v.Kind())
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := j.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
