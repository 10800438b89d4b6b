package schemaprep

import (
	"strconv"
	"strings"
)

// Pointer is a parsed same-document reference such as "#/$defs/Address".
// Tokens are unescaped (RFC 6901: "~1" is "/", "~0" is "~").
type Pointer struct {
	ref    string
	tokens []string
}

// ParsePointer parses an internal reference. Anything that is not of the
// form "#/..." fails with CodeUnsupportedReferenceKind.
func ParsePointer(ref string) (Pointer, error) {
	if !strings.HasPrefix(ref, "#/") {
		return Pointer{}, &Error{Code: CodeUnsupportedReferenceKind, Ref: ref, Message: "only same-document references of the form #/... are supported"}
	}
	raw := strings.Split(ref[2:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = unescapePointerToken(t)
	}
	return Pointer{ref: ref, tokens: tokens}, nil
}

// String returns the reference text the pointer was parsed from.
func (p Pointer) String() string { return p.ref }

// Tokens returns the unescaped reference tokens.
func (p Pointer) Tokens() []string { return append([]string(nil), p.tokens...) }

// Lookup walks root one token at a time. Objects are indexed by key and
// arrays by decimal index; a missing step fails with CodeReferenceNotFound.
func (p Pointer) Lookup(root Value) (Value, error) {
	cur := root
	for i, tok := range p.tokens {
		var (
			next Value
			ok   bool
		)
		switch cur.Kind() {
		case KindObject:
			next, ok = cur.Get(tok)
		case KindArray:
			if idx, err := strconv.Atoi(tok); err == nil && isArrayIndex(tok) {
				next, ok = cur.Index(idx)
			}
		}
		if !ok {
			return Value{}, &Error{
				Code:    CodeReferenceNotFound,
				Ref:     p.ref,
				Message: "no value at /" + strings.Join(escapeTokens(p.tokens[:i+1]), "/"),
			}
		}
		cur = next
	}
	return cur, nil
}

// isArrayIndex accepts "0" and digit strings without a leading zero.
func isArrayIndex(tok string) bool {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

func escapePointerToken(s string) string   { return pointerEscaper.Replace(s) }
func unescapePointerToken(s string) string { return pointerUnescaper.Replace(s) }

func escapeTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = escapePointerToken(t)
	}
	return out
}
