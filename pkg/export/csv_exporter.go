package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

// CSVOptions tunes the CSV dialect.
type CSVOptions struct {
	// BOM prefixes a UTF-8 byte order mark so spreadsheet apps detect
	// accented headers.
	BOM bool
	// Comma is the field delimiter; zero means ','. Spanish-locale Excel
	// expects ';'.
	Comma rune
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct {
	opts CSVOptions
}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter(opts CSVOptions) *CSVExporter {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	return &CSVExporter{opts: opts}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, errors.New("csv requires at least one header")
	}
	var buf bytes.Buffer
	if e.opts.BOM {
		buf.WriteString("\ufeff")
	}
	w := csv.NewWriter(&buf)
	w.Comma = e.opts.Comma

	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = formatCell(row[header])
		}
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
