package schemaprep

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	CodeUnsupportedReferenceKind = "unsupported_reference_kind"
	CodeReferenceNotFound        = "reference_not_found"
	CodeReferenceCycleDetected   = "reference_cycle_detected"
	CodeInvalidReferenceTarget   = "invalid_reference_target"
	CodeMalformedSchemaInput     = "malformed_schema_input"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its code.
var (
	ErrUnsupportedReferenceKind = errors.New("schemaprep: unsupported reference kind")
	ErrReferenceNotFound        = errors.New("schemaprep: reference not found")
	ErrReferenceCycleDetected   = errors.New("schemaprep: reference cycle detected")
	ErrInvalidReferenceTarget   = errors.New("schemaprep: invalid reference target")
	ErrMalformedSchemaInput     = errors.New("schemaprep: malformed schema input")
)

var sentinels = map[string]error{
	CodeUnsupportedReferenceKind: ErrUnsupportedReferenceKind,
	CodeReferenceNotFound:        ErrReferenceNotFound,
	CodeReferenceCycleDetected:   ErrReferenceCycleDetected,
	CodeInvalidReferenceTarget:   ErrInvalidReferenceTarget,
	CodeMalformedSchemaInput:     ErrMalformedSchemaInput,
}

// Error is the error returned by every failing operation of this package.
type Error struct {
	Code string
	// Path is the JSON Pointer of the node where the failure was detected
	// ("/" for the document root).
	Path string
	// Ref is the offending $ref value, when there is one.
	Ref     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Code
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Ref != "" {
		msg += fmt.Sprintf(" (ref %q)", e.Ref)
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts an *Error from err using errors.As.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func malformed(path, msg string, cause error) *Error {
	return &Error{Code: CodeMalformedSchemaInput, Path: path, Message: msg, Cause: cause}
}
