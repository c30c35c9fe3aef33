package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

const pdfLineHeight = 10

// renderPDF lays content out line by line: headings in bold at 14, 13 and
// 12 points, everything else as wrapped 12 point text.
func renderPDF(title, content string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, pdfLineHeight, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(pdfLineHeight)

	pdf.SetFont("Arial", "", 12)
	for _, line := range lines(content) {
		if level, text, ok := heading(line); ok {
			pdf.SetFont("Arial", "B", float64(15-level))
			pdf.CellFormat(0, pdfLineHeight, tr(text), "", 1, "", false, 0, "")
			pdf.SetFont("Arial", "", 12)
			continue
		}
		if line == "" {
			pdf.Ln(pdfLineHeight)
			continue
		}
		pdf.MultiCell(0, pdfLineHeight, tr(line), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
