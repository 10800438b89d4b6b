package schemaprep

import (
	"slices"
)

// Bundle is the processed form of one schema document. It is immutable:
// every accessor hands out a deep copy.
type Bundle struct {
	raw         Value
	clean       Value
	resolved    Value
	required    []string
	constraints *Constraints
	minified    string
}

// Process parses a JSON schema document and runs the whole pipeline: strip
// comments, resolve references, then flatten required paths, extract
// constraints and encode the canonical form of the resolved schema. Any
// failure aborts the run; no partial bundle is returned.
func Process(data []byte, opts Options) (*Bundle, error) {
	raw, err := Parse(data, opts.Parse)
	if err != nil {
		return nil, err
	}
	return Build(raw, opts)
}

// ProcessFile is Process over a file read from disk; see ParseFile for the
// accepted formats.
func ProcessFile(path string, opts Options) (*Bundle, error) {
	raw, err := ParseFile(path, opts.Parse)
	if err != nil {
		return nil, err
	}
	return Build(raw, opts)
}

// Build runs the pipeline over an already decoded document.
func Build(raw Value, opts Options) (*Bundle, error) {
	if raw.Kind() != KindObject {
		return nil, malformed("/", "root is "+raw.Kind().String()+", want object", nil)
	}
	clean := StripComments(raw)
	resolved, err := Resolve(clean, opts.Resolve)
	if err != nil {
		return nil, err
	}
	minified, err := CanonicalString(resolved)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		raw:         raw,
		clean:       clean,
		resolved:    resolved,
		required:    FlattenRequired(resolved),
		constraints: ExtractConstraints(resolved),
		minified:    minified,
	}, nil
}

// Raw returns a copy of the document as decoded.
func (b *Bundle) Raw() Value { return b.raw.Clone() }

// Clean returns a copy of the document without "$comment" members.
func (b *Bundle) Clean() Value { return b.clean.Clone() }

// Resolved returns a copy of the comment-free document with every reference
// expanded.
func (b *Bundle) Resolved() Value { return b.resolved.Clone() }

// Required returns the flattened required field paths.
func (b *Bundle) Required() []string { return slices.Clone(b.required) }

// Constraints returns the enum and pattern constraints by field path.
func (b *Bundle) Constraints() *Constraints { return b.constraints.clone() }

// Minified returns the canonical single-line encoding of Resolved.
func (b *Bundle) Minified() string { return b.minified }

// Value renders the bundle as a JSON object with the members raw, clean,
// resolved, flattened_required, enums_patterns and minified.
func (b *Bundle) Value() Value {
	req := make([]Value, len(b.required))
	for i, p := range b.required {
		req[i] = String(p)
	}
	return Object(
		Member{Key: "raw", Value: b.raw},
		Member{Key: "clean", Value: b.clean},
		Member{Key: "resolved", Value: b.resolved},
		Member{Key: "flattened_required", Value: Array(req...)},
		Member{Key: "enums_patterns", Value: b.constraints.Value()},
		Member{Key: "minified", Value: String(b.minified)},
	)
}
