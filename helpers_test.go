package schemaprep_test

import (
	"testing"

	"github.com/reoring/schemaprep"
)

func mustParse(t *testing.T, js string) schemaprep.Value {
	t.Helper()
	v, err := schemaprep.Parse([]byte(js), schemaprep.ParseOpt{})
	if err != nil {
		t.Fatalf("parse %s: %v", js, err)
	}
	return v
}

func mustResolve(t *testing.T, js string) schemaprep.Value {
	t.Helper()
	v, err := schemaprep.Resolve(mustParse(t, js), schemaprep.ResolveOpt{})
	if err != nil {
		t.Fatalf("resolve %s: %v", js, err)
	}
	return v
}

func canonical(t *testing.T, v schemaprep.Value) string {
	t.Helper()
	s, err := schemaprep.CanonicalString(v)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	return s
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	e, ok := schemaprep.AsError(err)
	if !ok {
		t.Fatalf("expected *schemaprep.Error, got %T: %v", err, err)
	}
	if e.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, e.Code, err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
