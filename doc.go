// Package schemaprep normalizes JSON Schema documents for prompt
// construction:
//
// - Parse/ParseYAML decode a document keeping key order and number literals
// - StripComments drops "$comment" annotations
// - Resolve expands same-document "$ref" pointers, with cycle detection
// - FlattenRequired lists required field paths across allOf/anyOf/oneOf
// - ExtractConstraints maps field paths to their enum and pattern keywords
// - Canonical encodes a value on one line, deterministically
//
// Process runs all of the above and returns an immutable Bundle.
//
// Design policy:
// - Keep only public APIs in the root package; put the tokenizer under internal/.
// - Every failure is an *Error carrying one of the Code* constants.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	b, err := schemaprep.ProcessFile("schema.json", schemaprep.Options{})
//	if err != nil {
//		return err
//	}
//	fmt.Println(b.Required(), b.Minified())
package schemaprep
