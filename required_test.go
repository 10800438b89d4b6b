package schemaprep_test

import (
	"testing"

	"github.com/reoring/schemaprep"
)

func TestFlattenRequired(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		want   []string
	}{
		{
			name:   "allOf keeps branch order",
			schema: `{"allOf":[{"required":["a"]},{"required":["b"]}]}`,
			want:   []string{"a", "b"},
		},
		{
			name:   "anyOf unions without duplicates",
			schema: `{"anyOf":[{"required":["a"]},{"required":["a","b"]}]}`,
			want:   []string{"a", "b"},
		},
		{
			name:   "oneOf unions without duplicates",
			schema: `{"oneOf":[{"required":["x","y"]},{"required":["y","z"]}]}`,
			want:   []string{"x", "y", "z"},
		},
		{
			name:   "allOf duplicates across branches are reported once",
			schema: `{"allOf":[{"required":["a","b"]},{"required":["b","c"]}],"required":["c","d"]}`,
			want:   []string{"a", "b", "c", "d"},
		},
		{
			name:   "composition before own required",
			schema: `{"required":["own"],"oneOf":[{"required":["o"]}],"anyOf":[{"required":["n"]}],"allOf":[{"required":["l"]}]}`,
			want:   []string{"l", "n", "o", "own"},
		},
		{
			name:   "nested object",
			schema: `{"required":["addr"],"properties":{"addr":{"type":"object","required":["city"]}}}`,
			want:   []string{"addr", "addr.city"},
		},
		{
			name:   "array of objects",
			schema: `{"required":["items"],"properties":{"items":{"type":"array","items":{"type":"object","required":["id"]}}}}`,
			want:   []string{"items", "items[].id"},
		},
		{
			name: "deep nesting",
			schema: `{"required":["order"],"properties":{"order":{"type":"object","required":["lines","meta"],"properties":{
				"lines":{"type":"array","items":{"type":"object","required":["sku","price"],"properties":{"price":{"type":"object","required":["amount"]}}}},
				"meta":{"type":"string"}}}}}`,
			want: []string{"order", "order.lines", "order.lines[].sku", "order.lines[].price", "order.lines[].price.amount", "order.meta"},
		},
		{
			name:   "optional nested object is not descended",
			schema: `{"required":["a"],"properties":{"a":{"type":"string"},"b":{"type":"object","required":["c"]}}}`,
			want:   []string{"a"},
		},
		{
			name:   "array of scalars is a leaf",
			schema: `{"required":["tags"],"properties":{"tags":{"type":"array","items":{"type":"string"}}}}`,
			want:   []string{"tags"},
		},
		{
			name:   "array with tuple items is a leaf",
			schema: `{"required":["t"],"properties":{"t":{"type":"array","items":[{"type":"object","required":["x"]}]}}}`,
			want:   []string{"t"},
		},
		{
			name:   "required field without property",
			schema: `{"required":["ghost"],"properties":{}}`,
			want:   []string{"ghost"},
		},
		{
			name:   "composition inside nested object",
			schema: `{"required":["p"],"properties":{"p":{"type":"object","anyOf":[{"required":["a"]},{"required":["b"]}]}}}`,
			want:   []string{"p", "p.a", "p.b"},
		},
		{
			name:   "non-string required entries are skipped",
			schema: `{"required":["a",1,null,"b"]}`,
			want:   []string{"a", "b"},
		},
		{
			name:   "no requirements",
			schema: `{"type":"object","properties":{"a":{"type":"string"}}}`,
			want:   []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := schemaprep.FlattenRequired(mustResolve(t, tc.schema))
			if got == nil {
				t.Fatalf("expected non-nil slice")
			}
			if !equalStrings(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFlattenRequired_AfterResolve(t *testing.T) {
	s := mustResolve(t, `{
		"$defs": {"Address": {"type": "object", "required": ["city", "zip"]}},
		"type": "object",
		"required": ["home", "work"],
		"properties": {
			"home": {"$ref": "#/$defs/Address"},
			"work": {"$ref": "#/$defs/Address", "required": ["company"]}
		}
	}`)
	got := schemaprep.FlattenRequired(s)
	want := []string{"home", "home.city", "home.zip", "work", "work.company"}
	if !equalStrings(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFlattenRequired_Deterministic(t *testing.T) {
	s := mustResolve(t, `{"anyOf":[{"required":["z","a"]},{"required":["m"]}],"required":["b"]}`)
	first := schemaprep.FlattenRequired(s)
	for i := 0; i < 20; i++ {
		if got := schemaprep.FlattenRequired(s); !equalStrings(got, first) {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}
