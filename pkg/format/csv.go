package format

import (
	"bytes"
	"encoding/csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVDecoder decodes delimiter separated files. The first record is the
// header; every following record becomes a map from header field to cell
// text. Cells are never converted to numbers. A file with only a header
// decodes to an empty slice.
type CSVDecoder struct {
	// Comma is the field delimiter: ',' for .csv, '\t' for .tsv.
	Comma rune
}

func (d CSVDecoder) Name() string {
	if d.Comma == '\t' {
		return "tsv"
	}
	return "csv"
}

func (d CSVDecoder) Extensions() []string {
	if d.Comma == '\t' {
		return []string{".tsv"}
	}
	return []string{".csv"}
}

func (d CSVDecoder) Decode(data []byte) (any, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if d.Comma != 0 {
		r.Comma = d.Comma
	}
	// TSV files rarely quote fields; a stray quote should not abort the load.
	r.LazyQuotes = d.Comma == '\t'

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]any, 0, max(len(records)-1, 0))
	if len(records) == 0 {
		return rows, nil
	}
	header := records[0]
	for _, rec := range records[1:] {
		row := make(map[string]any, len(header))
		for i, field := range header {
			row[field] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
