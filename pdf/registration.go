// Package pdf renders the printable registration sheets offered on every
// record screen.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Field is one labeled value on a registration sheet
type Field struct {
	Label string
	Value string
}

// Section groups fields under a heading, one per child list
type Section struct {
	Title  string
	Fields []Field
}

const (
	pageMargin  = 15.0
	labelWidth  = 55.0
	lineHeight  = 7.0
	titleHeight = 10.0
)

// RegistrationSheet renders a titled field table to a PDF document
func RegistrationSheet(title string, sections []Section) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, titleHeight, tr(title), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(120, 120, 120)
	printed := fmt.Sprintf("printed %s", time.Now().Format("2006-01-02 15:04"))
	doc.CellFormat(0, lineHeight, printed, "", 1, "L", false, 0, "")
	doc.Ln(3)

	for _, section := range sections {
		if section.Title != "" {
			doc.SetFont("Helvetica", "B", 11)
			doc.SetTextColor(0, 0, 0)
			doc.CellFormat(0, lineHeight, tr(section.Title), "B", 1, "L", false, 0, "")
			doc.Ln(1)
		}

		for _, field := range section.Fields {
			doc.SetFont("Helvetica", "B", 10)
			doc.SetTextColor(60, 60, 60)
			doc.CellFormat(labelWidth, lineHeight, tr(field.Label), "", 0, "L", false, 0, "")

			doc.SetFont("Helvetica", "", 10)
			doc.SetTextColor(0, 0, 0)
			doc.MultiCell(0, lineHeight, tr(field.Value), "", "L", false)
		}
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render registration sheet: %w", err)
	}
	return buf.Bytes(), nil
}
