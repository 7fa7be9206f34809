package format

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLDecoder decodes .yaml and .yml files. Only the first document of a
// multi-document stream is read. Mapping keys are converted to strings so
// the result has the same shape as decoded JSON.
type YAMLDecoder struct{}

func (YAMLDecoder) Name() string         { return "yaml" }
func (YAMLDecoder) Extensions() []string { return []string{".yaml", ".yml"} }

func (YAMLDecoder) Decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeYAML(child)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return m
	case []any:
		for i, child := range t {
			t[i] = normalizeYAML(child)
		}
		return t
	default:
		return v
	}
}
