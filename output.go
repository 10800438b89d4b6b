package schemaprep

import (
	"errors"
	"fmt"
	"os"
)

// ErrMalformedModelOutput reports generated output that is not valid JSON.
var ErrMalformedModelOutput = errors.New("schemaprep: model output is not valid JSON")

// ErrorArtifactSuffix is appended to the output path to name the file that
// receives unparsable output.
const ErrorArtifactSuffix = ".error.txt"

// SaveModelOutput stores generated JSON. Valid output is written to path
// with two-space indentation. Otherwise raw is written unchanged to
// path+ErrorArtifactSuffix and the returned error wraps
// ErrMalformedModelOutput. The path of the file written is returned either
// way.
func SaveModelOutput(raw []byte, path string) (string, error) {
	v, perr := ParseValue(raw, ParseOpt{MaxDepth: -1})
	if perr != nil {
		artifact := path + ErrorArtifactSuffix
		if err := os.WriteFile(artifact, raw, 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", artifact, err)
		}
		return artifact, fmt.Errorf("%w: %v (raw output saved to %s)", ErrMalformedModelOutput, perr, artifact)
	}
	out, err := Indent(v)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
