package schemaprep_test

import (
	"testing"

	"github.com/reoring/schemaprep"
)

func TestStripComments_Recursive(t *testing.T) {
	in := mustParse(t, `{
		"$comment": "root",
		"type": "object",
		"properties": {
			"a": {"$comment": "field", "type": "string"},
			"b": {"type": "array", "items": [{"$comment": "x", "const": 1}]}
		},
		"examples": ["$comment"],
		"x-$comment": "kept"
	}`)
	got := canonical(t, schemaprep.StripComments(in))
	want := `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"array","items":[{"const":1}]}},"examples":["$comment"],"x-$comment":"kept"}`
	if got != want {
		t.Fatalf("strip mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestStripComments_DoesNotMutateInput(t *testing.T) {
	in := mustParse(t, `{"$comment":"c","a":{"$comment":"d"}}`)
	before := canonical(t, in)
	_ = schemaprep.StripComments(in)
	if after := canonical(t, in); after != before {
		t.Fatalf("input mutated: %s -> %s", before, after)
	}
}

func TestStripComments_Idempotent(t *testing.T) {
	in := mustParse(t, `{"$comment":"c","allOf":[{"$comment":"d","required":["a"]}],"enum":[{"$comment":1}]}`)
	once := schemaprep.StripComments(in)
	twice := schemaprep.StripComments(once)
	if !once.Equal(twice) {
		t.Fatalf("strip not idempotent: %s vs %s", once, twice)
	}
}

func TestStripComments_Scalars(t *testing.T) {
	for _, v := range []schemaprep.Value{schemaprep.Null(), schemaprep.Bool(true), schemaprep.Int(3), schemaprep.String("$comment")} {
		if got := schemaprep.StripComments(v); !got.Equal(v) {
			t.Fatalf("scalar changed: %s -> %s", v, got)
		}
	}
}
