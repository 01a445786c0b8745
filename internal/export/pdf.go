package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 210.0 // A4 portrait, mm

// WritePDF renders a document's paginated layout to w.
func WritePDF(w io.Writer, content string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for _, page := range Paginate(content) {
		pdf.AddPage()
		for _, b := range page.Blocks {
			style := ""
			if b.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, b.Size)
			if b.Centered {
				pdf.SetXY(0, b.Y)
				pdf.CellFormat(pageWidth, lineHeight, b.Text, "", 0, "C", false, 0, "")
			} else {
				pdf.Text(b.X, b.Y, b.Text)
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFilename derives the download name from the document type label and
// the purpose field, whitespace collapsed to underscores. An empty
// purpose falls back to a generic name.
func PDFFilename(label, purpose string) string {
	name := "Document"
	if fields := strings.Fields(purpose); len(fields) > 0 {
		name = strings.Join(fields, "_")
	}
	return label + "_" + name + ".pdf"
}

// TextFilename derives the plain-text download name from a draft title.
func TextFilename(title string) string {
	if title == "" {
		title = "Document"
	}
	return title + ".txt"
}
