package schemaprep

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	eng "github.com/reoring/schemaprep/internal/engine"
)

// Parse decodes a JSON schema document. The root must be an object; every
// failure is reported as CodeMalformedSchemaInput.
func Parse(data []byte, opt ParseOpt) (Value, error) {
	v, err := ParseValue(data, opt)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != KindObject {
		return Value{}, malformed("/", "root is "+v.Kind().String()+", want object", nil)
	}
	return v, nil
}

// ParseValue decodes any JSON text, whatever the kind of its root.
func ParseValue(data []byte, opt ParseOpt) (Value, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return Value{}, malformed("/", fmt.Sprintf("input is %d bytes, limit %d", len(data), opt.MaxBytes), nil)
	}
	if !eng.Valid(data) {
		return Value{}, malformed("/", "invalid JSON", nil)
	}
	var sink func(eng.SimpleIssue)
	if opt.Warn != nil {
		sink = func(si eng.SimpleIssue) { opt.Warn(si.Path, si.Message) }
	}
	src := eng.WrapWithEnforcement(eng.NewBytes(data), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.maxDepth(),
		IssueSink:   sink,
	})
	tok, err := src.NextToken()
	if err != nil {
		return Value{}, toMalformed(err)
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return Value{}, toMalformed(err)
	}
	return v, nil
}

// ParseReader reads r fully and decodes it with Parse.
func ParseReader(r io.Reader, opt ParseOpt) (Value, error) {
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return Parse(data, opt)
}

// ParseFile reads a schema document from disk. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func ParseFile(path string, opt ParseOpt) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Value{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, opt)
	default:
		return Parse(data, opt)
	}
}

func decodeValue(src eng.TokenSource, tok eng.Token) (Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		return decodeObject(src)
	case eng.KindBeginArray:
		return decodeArray(src)
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNull:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected %s token", tok.Kind)
	}
}

func decodeObject(src eng.TokenSource) (Value, error) {
	obj := newObject()
	for {
		tok, err := src.NextToken()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == eng.KindEndObject {
			return obj, nil
		}
		if tok.Kind != eng.KindKey {
			return Value{}, fmt.Errorf("unexpected %s token, want key", tok.Kind)
		}
		vt, err := src.NextToken()
		if err != nil {
			return Value{}, err
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return Value{}, err
		}
		obj.set(tok.String, v)
	}
}

func decodeArray(src eng.TokenSource) (Value, error) {
	items := []Value{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == eng.KindEndArray {
			return Array(items...), nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
}

func toMalformed(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return malformed(ie.Path, ie.Message, nil)
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return malformed("/", "decode", err)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case SeverityError:
		return eng.DupError
	case SeverityWarn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
