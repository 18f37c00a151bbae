package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/unowned-ai/jotter/pkg/notes"
)

// PDF writes n as an A4 portrait document: title, tags, body text and dates.
func PDF(w io.Writer, n notes.Note) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(n.Title, true)
	pdf.SetCreator("jotter", true)
	pdf.SetCreationDate(n.CreatedAt)
	pdf.SetModificationDate(n.UpdatedAt)

	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(n.Title), "", "L", false)
	pdf.Ln(2)

	if len(n.Tags) > 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, tr("Tags: "+strings.Join(n.Tags, ", ")), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "", 12)
	if body := ContentText(n.Content); body != "" {
		pdf.MultiCell(0, 6, tr(body), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 4.5, tr("Created: "+Date(n.CreatedAt)), "", "L", false)
	pdf.MultiCell(0, 4.5, tr("Updated: "+DateTime(n.UpdatedAt)), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF for note '%s': %w", n.ID, err)
	}
	return nil
}
