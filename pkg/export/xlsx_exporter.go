package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders a Dataset into a single-sheet workbook.
type XLSXExporter struct {
	sheet      string
	emptyLabel string
}

// NewXLSXExporter builds an exporter writing to the named sheet. When the
// dataset has no rows, emptyLabel is written to A1 instead of a table.
func NewXLSXExporter(sheet, emptyLabel string) *XLSXExporter {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &XLSXExporter{sheet: sheet, emptyLabel: emptyLabel}
}

// Render produces xlsx bytes. Numeric values stay numeric in the sheet.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(f.GetSheetName(0), e.sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if data.Empty() {
		if err := f.SetCellValue(e.sheet, "A1", e.emptyLabel); err != nil {
			return nil, fmt.Errorf("write empty marker: %w", err)
		}
		return writeWorkbook(f)
	}

	header := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(e.sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(e.sheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	for i, row := range data.Rows {
		values := make([]interface{}, len(data.Headers))
		for j, h := range data.Headers {
			values[j] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(e.sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(e.sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
