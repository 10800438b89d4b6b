package schemaprep

import (
	"regexp"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	controlPattern  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	blankRunPattern = regexp.MustCompile(`\n\s*\n`)
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)
)

// CleanText normalizes a free-text document before it is embedded next to a
// schema: surrounding whitespace is trimmed, markup tags and control
// characters (other than tab, newline and carriage return) are dropped, runs
// of blank lines become a single blank line and runs of spaces or tabs
// become one space.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	text = tagPattern.ReplaceAllString(text, "")
	text = controlPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	return text
}
