package format

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONDecoder decodes .json files with encoding/json. Numbers become
// float64 and objects map[string]any.
type JSONDecoder struct{}

func (JSONDecoder) Name() string         { return "json" }
func (JSONDecoder) Extensions() []string { return []string{".json"} }

func (JSONDecoder) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		if se, ok := err.(*json.SyntaxError); ok {
			line, col := position(data, se.Offset-1)
			return nil, fmt.Errorf("line %d, column %d: %w", line, col, err)
		}
		return nil, err
	}
	return v, nil
}

// position converts the byte offset of the offending character into a
// 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	offset = max(offset, 0)
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:offset]
	line = bytes.Count(head, []byte{'\n'}) + 1
	col = len(head) - bytes.LastIndexByte(head, '\n')
	return line, col
}
