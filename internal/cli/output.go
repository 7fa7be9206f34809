package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/quaff/pkg/errors"
)

// Output formats for load and file.
const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputTOML = "toml"
)

var outputFormats = []string{outputJSON, outputYAML, outputTOML}

func validateOutputFormat(f string) error {
	if !slices.Contains(outputFormats, f) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid output format %q (valid: json, yaml, toml)", f)
	}
	return nil
}

// encodeValue renders v in the given output format. TOML needs a table at
// the top level, so a single file holding a list cannot be written as TOML.
func encodeValue(v any, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case outputJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode json")
		}
	case outputYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode yaml")
		}
	case outputTOML:
		if _, ok := v.(map[string]any); !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "toml output needs a table at the top level, got %T", v)
		}
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode toml")
		}
	default:
		return nil, validateOutputFormat(format)
	}
	return buf.Bytes(), nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
