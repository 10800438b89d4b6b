package schemaprep_test

import (
	"testing"

	"github.com/reoring/schemaprep"
)

func TestValue_Equal(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{`{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{`{"a":1.0}`, `{"a":1}`, true},
		{`{"a":1e2}`, `{"a":100}`, true},
		{`{"a":[1,2]}`, `{"a":[2,1]}`, false},
		{`{"a":"1"}`, `{"a":1}`, false},
		{`{"a":null}`, `{}`, false},
		{`{"a":{"b":[true]}}`, `{"a":{"b":[true]}}`, true},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.a).Equal(mustParse(t, tc.b)); got != tc.want {
			t.Fatalf("%s == %s: got %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	orig := mustParse(t, `{"a":{"b":[1]}}`)
	cp := orig.Clone()
	a, _ := cp.Get("a")
	if !cp.Equal(orig) {
		t.Fatalf("clone differs")
	}
	// Items hands out a copy of the slice.
	b, _ := a.Get("b")
	items := b.Items()
	items[0] = schemaprep.String("x")
	if got := canonical(t, orig); got != `{"a":{"b":[1]}}` {
		t.Fatalf("original changed: %s", got)
	}
}

func TestValue_Constructors(t *testing.T) {
	v := schemaprep.Object(
		schemaprep.Member{Key: "n", Value: schemaprep.Int(-3)},
		schemaprep.Member{Key: "s", Value: schemaprep.String("<x>")},
		schemaprep.Member{Key: "l", Value: schemaprep.Array(schemaprep.Null(), schemaprep.Bool(false))},
		schemaprep.Member{Key: "n", Value: schemaprep.Number("2.50")},
	)
	if got := canonical(t, v); got != `{"n":2.50,"s":"<x>","l":[null,false]}` {
		t.Fatalf("canonical: %s", got)
	}
	if !equalStrings(v.Keys(), []string{"n", "s", "l"}) {
		t.Fatalf("keys: %q", v.Keys())
	}
	if v.Len() != 3 || !v.Has("l") || v.Has("x") {
		t.Fatalf("object accessors")
	}
	if schemaprep.Array().String() != "[]" || (schemaprep.Value{}).String() != "" {
		t.Fatalf("empty renderings")
	}
	if _, ok := schemaprep.String("a").Get("a"); ok {
		t.Fatalf("Get on a string must fail")
	}
}
