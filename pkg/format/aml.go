package format

import "github.com/matzehuels/quaff/pkg/archieml"

// ArchieMLDecoder decodes .aml files.
type ArchieMLDecoder struct{}

func (ArchieMLDecoder) Name() string         { return "archieml" }
func (ArchieMLDecoder) Extensions() []string { return []string{".aml"} }

func (ArchieMLDecoder) Decode(data []byte) (any, error) {
	return archieml.Unmarshal(data)
}
