package format

import "github.com/BurntSushi/toml"

// TOMLDecoder decodes .toml files into a map[string]any. Datetimes are
// returned as time.Time or the toml.Local* types.
type TOMLDecoder struct{}

func (TOMLDecoder) Name() string         { return "toml" }
func (TOMLDecoder) Extensions() []string { return []string{".toml"} }

func (TOMLDecoder) Decode(data []byte) (any, error) {
	v := map[string]any{}
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
