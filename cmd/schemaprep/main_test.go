package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaprep"
)

const userSchema = `{
	"$comment": "user record",
	"type": "object",
	"required": ["name", "role"],
	"properties": {
		"name": {"type": "string"},
		"role": {"$ref": "#/$defs/Role"}
	},
	"$defs": {"Role": {"type": "string", "enum": ["admin", "member"]}}
}`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")

	code, stdout, _ := runCLI("help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "schemaprep bundle")

	code, _, _ = runCLI("frobnicate")
	assert.Equal(t, 2, code)

	code, _, stderr = runCLI("required")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "-schema is required")

	code, _, _ = runCLI("minify", "-nope")
	assert.Equal(t, 2, code)
}

func TestRun_Required(t *testing.T) {
	schema := write(t, t.TempDir(), "user.json", userSchema)
	code, stdout, stderr := runCLI("required", "-schema", schema)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "name\nrole\n", stdout)
}

func TestRun_Minify(t *testing.T) {
	schema := write(t, t.TempDir(), "user.json", userSchema)
	code, stdout, stderr := runCLI("minify", "-schema", schema)
	require.Equal(t, 0, code, stderr)

	b, err := schemaprep.ProcessFile(schema, schemaprep.Options{})
	require.NoError(t, err)
	assert.Equal(t, b.Minified()+"\n", stdout)
	assert.NotContains(t, stdout, "$comment")
}

func TestRun_Constraints(t *testing.T) {
	schema := write(t, t.TempDir(), "user.yaml", "type: object\nproperties:\n  role:\n    enum: [admin, member]\n")
	code, stdout, stderr := runCLI("constraints", "-schema", schema)
	require.Equal(t, 0, code, stderr)

	v, err := schemaprep.Parse([]byte(stdout), schemaprep.ParseOpt{})
	require.NoError(t, err)
	role, ok := v.Get("role")
	require.True(t, ok)
	assert.Equal(t, `{"enum":["admin","member"]}`, role.String())
}

func TestRun_BundleSingle(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "user.json", userSchema)
	out := filepath.Join(dir, "out", "user.bundle.json")

	code, _, stderr := runCLI("bundle", "-schema", schema, "-o", out)
	require.Equal(t, 0, code, stderr)

	v, err := schemaprep.ParseFile(out, schemaprep.ParseOpt{})
	require.NoError(t, err)
	assert.Equal(t, []string{"raw", "clean", "resolved", "flattened_required", "enums_patterns", "minified"}, v.Keys())
	req, _ := v.Get("flattened_required")
	assert.Equal(t, `["name","role"]`, req.String())
}

func TestRun_BundleGlob(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "schemas/a.json", `{"required":["a"]}`)
	write(t, dir, "schemas/nested/b.yaml", "required: [b]\n")
	write(t, dir, "schemas/notes.txt", "not a schema")
	outDir := filepath.Join(dir, "bundles")

	code, stdout, stderr := runCLI("bundle", "-schema", filepath.Join(dir, "schemas", "**", "*.{json,yaml}"), "-o", outDir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "a.bundle.json")
	assert.Contains(t, stdout, "b.bundle.json")

	for _, name := range []string{"a.bundle.json", "b.bundle.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_BundleGlobNoMatch(t *testing.T) {
	code, _, stderr := runCLI("bundle", "-schema", filepath.Join(t.TempDir(), "*.json"), "-o", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no schema files match")
}

func TestRun_BundleError(t *testing.T) {
	schema := write(t, t.TempDir(), "bad.json", `{"properties":{"a":{"$ref":"#/$defs/Missing"}}}`)
	code, stdout, stderr := runCLI("bundle", "-schema", schema)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, schemaprep.CodeReferenceNotFound)
}

func TestRun_ConfigDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "dup.json", `{"required":["a"],"required":["b"]}`)

	code, stdout, stderr := runCLI("required", "-schema", schema)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "b\n", stdout)

	cfg := write(t, dir, "cfg.yaml", "duplicate_keys: error\n")
	code, _, stderr = runCLI("required", "-schema", schema, "-config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, schemaprep.CodeMalformedSchemaInput)

	cfg = write(t, dir, "warn.yaml", "duplicate_keys: warn\n")
	code, _, stderr = runCLI("required", "-schema", schema, "-config", cfg)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "duplicated")
}

func TestRun_ConfigMaxRefNodes(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "fan.json", `{
		"defs": {
			"a": {"type": "string"},
			"b": {"allOf": [{"$ref": "#/defs/a"}, {"$ref": "#/defs/a"}]},
			"c": {"allOf": [{"$ref": "#/defs/b"}, {"$ref": "#/defs/b"}]}
		},
		"required": ["x"],
		"properties": {"x": {"$ref": "#/defs/c"}}
	}`)

	code, _, stderr := runCLI("required", "-schema", schema)
	require.Equal(t, 0, code, stderr)

	cfg := write(t, dir, "cfg.yaml", "max_ref_nodes: 10\n")
	code, _, stderr = runCLI("required", "-schema", schema, "-config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, schemaprep.CodeReferenceCycleDetected)
}

func TestRun_Prompt(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "user.json", userSchema)
	text := write(t, dir, "in.txt", "  <p>Alice</p>   is an   admin.\n\n\n\nThanks ")
	out := filepath.Join(dir, "prompt.txt")

	code, _, stderr := runCLI("prompt", "-schema", schema, "-text", text, "-o", out)
	require.Equal(t, 0, code, stderr)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	p := string(got)
	assert.Contains(t, p, "- name\n- role\n")
	assert.Contains(t, p, `role: enum values: ["admin","member"]`)
	assert.Contains(t, p, "Text:\nAlice is an admin.\n\nThanks\n")
	assert.True(t, strings.HasSuffix(p, "extra text.\n"))
}

func TestRun_Save(t *testing.T) {
	dir := t.TempDir()
	good := write(t, dir, "good.txt", `{"name":"Alice"}`)
	out := filepath.Join(dir, "result.json")

	code, stdout, stderr := runCLI("save", "-in", good, "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "saved "+out)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Alice\"\n}\n", string(got))

	bad := write(t, dir, "bad.txt", "I could not find a name.")
	out = filepath.Join(dir, "bad.json")
	code, _, stderr = runCLI("save", "-in", bad, "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, out+schemaprep.ErrorArtifactSuffix)
	raw, err := os.ReadFile(out + schemaprep.ErrorArtifactSuffix)
	require.NoError(t, err)
	assert.Equal(t, "I could not find a name.", string(raw))
}
