package schemaprep

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Constraint holds the value restrictions declared on a single field.
type Constraint struct {
	// Enum is the "enum" keyword as written; invalid when absent.
	Enum Value
	// Pattern is the "pattern" regular expression.
	Pattern    string
	HasPattern bool
}

// HasEnum reports whether the field declares an enum.
func (c Constraint) HasEnum() bool { return c.Enum.IsValid() }

// EnumValues returns the enum entries when the enum is an array.
func (c Constraint) EnumValues() []Value { return c.Enum.Items() }

// Value renders the constraint as {"enum":...,"pattern":...}.
func (c Constraint) Value() Value {
	out := newObject()
	if c.HasEnum() {
		out.set(keyEnum, c.Enum.Clone())
	}
	if c.HasPattern {
		out.set(keyPattern, String(c.Pattern))
	}
	return out
}

// Constraints maps field paths to their constraints, in first-recorded
// order.
type Constraints struct {
	m *orderedmap.OrderedMap[string, Constraint]
}

func newConstraints() *Constraints {
	return &Constraints{m: orderedmap.New[string, Constraint]()}
}

// Len returns the number of constrained fields.
func (c *Constraints) Len() int { return c.m.Len() }

// Get returns the constraint recorded for path.
func (c *Constraints) Get(path string) (Constraint, bool) { return c.m.Get(path) }

// Paths returns the constrained field paths in order.
func (c *Constraints) Paths() []string {
	out := make([]string, 0, c.m.Len())
	for p := c.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Value renders the whole mapping as a JSON object.
func (c *Constraints) Value() Value {
	out := newObject()
	for p := c.m.Oldest(); p != nil; p = p.Next() {
		out.set(p.Key, p.Value.Value())
	}
	return out
}

func (c *Constraints) clone() *Constraints {
	out := newConstraints()
	for p := c.m.Oldest(); p != nil; p = p.Next() {
		cc := p.Value
		cc.Enum = cc.Enum.Clone()
		out.m.Set(p.Key, cc)
	}
	return out
}

// ExtractConstraints collects the "enum" and "pattern" keywords declared on
// properties, keyed by field path. Branches of allOf, anyOf and oneOf are
// merged in order, then the node's own properties; on a path collision the
// later entry replaces the earlier one. Like FlattenRequired this yields a
// superset of the possible constraints, not either/or semantics.
//
// Object properties are descended into, as are the object items of array
// properties (under "path[]"). Fields with neither keyword are omitted.
func ExtractConstraints(schema Value) *Constraints {
	c := newConstraints()
	extractInto(c, schema, "")
	return c
}

func extractInto(c *Constraints, s Value, prefix string) {
	if s.Kind() != KindObject {
		return
	}
	for _, kw := range compositionKeywords {
		branches, _ := s.Get(kw)
		for _, b := range branches.arr {
			extractInto(c, b, prefix)
		}
	}
	props, ok := s.member(keyProperties)
	if !ok {
		return
	}
	for p := props.obj.Oldest(); p != nil; p = p.Next() {
		ps := p.Value
		if ps.Kind() != KindObject {
			continue
		}
		path := joinPath(prefix, p.Key)
		var entry Constraint
		if e, ok := ps.Get(keyEnum); ok {
			entry.Enum = e
		}
		if pat, ok := ps.Get(keyPattern); ok {
			entry.Pattern, entry.HasPattern = pat.AsString()
		}
		if entry.HasEnum() || entry.HasPattern {
			c.m.Set(path, entry)
		}
		switch ps.typeName() {
		case "object":
			extractInto(c, ps, path)
		case "array":
			if items, ok := ps.member(keyItems); ok && items.typeName() == "object" {
				extractInto(c, items, path+"[]")
			}
		}
	}
}
