package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Section is one block of a PDF report: a heading, optional key/value
// lines and an optional table.
type Section struct {
	Heading string
	Lines   []string
	Table   *Dataset
	Widths  []float64
}

// Document describes a multi-section PDF report.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders report documents on A4 portrait pages.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const pageWidth = 190.0

// Render writes the document. Text is translated to cp1252 so Spanish
// accents survive the core fonts.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, tr(section.Heading), "B", 1, "", false, 0, "")
			pdf.Ln(2)
		}
		pdf.SetFont("Arial", "", 10)
		for _, line := range section.Lines {
			pdf.MultiCell(0, 6, tr(line), "", "", false)
		}
		if section.Table != nil && len(section.Table.Headers) > 0 {
			renderTable(pdf, tr, *section.Table, section.Widths)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTable(pdf *gofpdf.Fpdf, tr func(string) string, data Dataset, widths []float64) {
	if len(widths) != len(data.Headers) {
		widths = make([]float64, len(data.Headers))
		for i := range widths {
			widths[i] = pageWidth / float64(len(data.Headers))
		}
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			align := "L"
			if i > 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, tr(truncate(formatCell(row[header]), widths[i])), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// truncate keeps text roughly inside a cell of width mm at 9pt.
func truncate(s string, width float64) string {
	limit := int(width / 1.9)
	r := []rune(s)
	if limit < 4 || len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
