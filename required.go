package schemaprep

// Schema keywords consulted by the flattener and the constraint extractor.
const (
	keyAllOf      = "allOf"
	keyAnyOf      = "anyOf"
	keyOneOf      = "oneOf"
	keyRequired   = "required"
	keyProperties = "properties"
	keyItems      = "items"
	keyEnum       = "enum"
	keyPattern    = "pattern"
)

var compositionKeywords = [...]string{keyAllOf, keyAnyOf, keyOneOf}

// FlattenRequired lists the paths of every field the schema requires,
// including fields of required nested objects ("addr.city") and of object
// items of required arrays ("items[].id").
//
// Composition is flattened rather than evaluated: allOf, anyOf and oneOf
// branches all contribute their requirements under the current prefix, in
// that keyword order, before the node's own "required" list. For anyOf and
// oneOf this reports every field that could be required under some
// alternative. Each path appears once, at its first occurrence.
//
// The schema is expected to be resolved; "$ref" nodes are not followed.
func FlattenRequired(schema Value) []string {
	f := &flattener{out: []string{}, seen: make(map[string]bool)}
	f.walk(schema, "")
	return f.out
}

type flattener struct {
	out  []string
	seen map[string]bool
}

func (f *flattener) add(path string) {
	if f.seen[path] {
		return
	}
	f.seen[path] = true
	f.out = append(f.out, path)
}

func (f *flattener) walk(s Value, prefix string) {
	if s.Kind() != KindObject {
		return
	}
	for _, kw := range compositionKeywords {
		branches, _ := s.Get(kw)
		for _, b := range branches.arr {
			f.walk(b, prefix)
		}
	}
	props, _ := s.member(keyProperties)
	for _, name := range requiredNames(s) {
		child := joinPath(prefix, name)
		f.add(child)
		ps, ok := props.member(name)
		if !ok {
			continue
		}
		switch ps.typeName() {
		case "object":
			f.walk(ps, child)
		case "array":
			if items, ok := ps.member(keyItems); ok && items.typeName() == "object" {
				f.walk(items, child+"[]")
			}
		}
	}
}

// requiredNames returns the string entries of "required"; other entries are
// skipped.
func requiredNames(s Value) []string {
	req, ok := s.Get(keyRequired)
	if !ok || req.Kind() != KindArray {
		return nil
	}
	names := make([]string, 0, len(req.arr))
	for _, r := range req.arr {
		if n, ok := r.AsString(); ok {
			names = append(names, n)
		}
	}
	return names
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
