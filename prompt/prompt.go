// Package prompt assembles the extraction instruction sent to a text
// generation model from a processed schema bundle and a cleaned document.
package prompt

import (
	"bytes"
	"strings"

	"github.com/reoring/schemaprep"
)

// Spec holds the pieces of an extraction prompt.
type Spec struct {
	Required    []string
	Constraints *schemaprep.Constraints
	Schema      string
	Text        string
}

// FromBundle fills a Spec from a bundle and an already cleaned text.
func FromBundle(b *schemaprep.Bundle, cleanedText string) Spec {
	return Spec{
		Required:    b.Required(),
		Constraints: b.Constraints(),
		Schema:      b.Minified(),
		Text:        cleanedText,
	}
}

// Build renders the prompt for b and cleanedText.
func Build(b *schemaprep.Bundle, cleanedText string) string {
	return Render(FromBundle(b, cleanedText))
}

// Render lays out the prompt sections in a fixed order.
func Render(s Spec) string {
	var buf bytes.Buffer
	buf.WriteString("Extract all information from the text below and structure it strictly according to the provided JSON Schema.\n\n")
	writeSection(&buf, "Required fields (including nested) you must include (across all possible composed/alternative branches):", formatRequired(s.Required))
	writeSection(&buf, "Field constraints (enums and regex pattern constraints):", formatConstraints(s.Constraints))
	writeSection(&buf, "JSON Schema:", s.Schema)
	writeSection(&buf, "Text:", s.Text)
	buf.WriteString("Output only a valid JSON object that strictly adheres to the schema, including nested objects and arrays. Do not include any explanations or extra text.")
	return strings.TrimSpace(buf.String())
}

func writeSection(buf *bytes.Buffer, title, body string) {
	buf.WriteString(title)
	buf.WriteByte('\n')
	buf.WriteString(body)
	buf.WriteString("\n\n")
}

func formatRequired(paths []string) string {
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = "- " + p
	}
	return strings.Join(lines, "\n")
}

func formatConstraints(c *schemaprep.Constraints) string {
	if c == nil || c.Len() == 0 {
		return "None"
	}
	lines := make([]string, 0, c.Len())
	for _, path := range c.Paths() {
		con, _ := c.Get(path)
		var parts []string
		if con.HasEnum() {
			parts = append(parts, "enum values: "+con.Enum.String())
		}
		if con.HasPattern {
			parts = append(parts, "pattern: "+con.Pattern)
		}
		lines = append(lines, path+": "+strings.Join(parts, ", "))
	}
	return strings.Join(lines, "\n")
}
