package export

import (
	"fmt"
	"io"
	"slices"
	"time"

	"designsight/internal/domain/models"
	"designsight/internal/domain/services"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
	// pageBreakY starts a new page before a feedback item below this point (mm)
	pageBreakY = 240.0
)

// WritePDF renders the "Design Feedback Report" PDF
func WritePDF(w io.Writer, report *services.ImageReport, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle("Design Feedback Report", true)
	pdf.SetCreator("designsight", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 20)
	pdf.CellFormat(0, 12, "Design Feedback Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", 12)
	line := func(text string) {
		pdf.MultiCell(0, pdfLineHeight, tr(text), "", "L", false)
	}
	line("Image: " + report.Image.OriginalName)
	if report.Project != nil {
		line("Project: " + report.Project.Name)
	}
	line("Generated: " + now.UTC().Format("2006-01-02"))
	line(fmt.Sprintf("Total Feedback Items: %d", len(report.Feedback)))
	pdf.Ln(4)

	if res := report.Image.AnalysisResult; res != nil {
		heading(pdf, "AI Analysis Summary")
		pdf.SetFont(pdfFont, "", 12)
		summary := res.Summary
		if summary == "" {
			summary = "No summary available"
		}
		line(summary)
		if res.OverallScore != nil {
			line(fmt.Sprintf("Overall score: %.0f", *res.OverallScore))
		}
		pdf.Ln(4)
	}

	heading(pdf, "Feedback Items")
	for i, item := range report.Feedback {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}
		writeFeedbackItem(pdf, tr, i+1, item, report.Comments[item.ID])
	}

	pdf.AddPage()
	heading(pdf, "Statistics")
	writeCounts(pdf, "By Category:", report.Stats.ByCategory)
	pdf.Ln(3)
	writeCounts(pdf, "By Severity:", report.Stats.BySeverity)
	pdf.Ln(3)
	writeCounts(pdf, "By Status:", report.Stats.ByStatus)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf export: %w", err)
	}
	return nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont(pdfFont, "BU", 16)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func writeFeedbackItem(pdf *fpdf.Fpdf, tr func(string) string, n int, item models.Feedback, comments []models.Comment) {
	pdf.SetFont(pdfFont, "B", 14)
	pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. %s", n, item.Title)), "", "L", false)

	pdf.SetFont(pdfFont, "", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf("Category: %s | Severity: %s | Status: %s | Priority: %d",
		item.Category, item.Severity, item.Status, item.Priority), "", "L", false)

	pdf.SetFont(pdfFont, "", 12)
	pdf.MultiCell(0, pdfLineHeight, tr(item.Description), "", "L", false)

	pdf.SetFont(pdfFont, "", 10)
	c := item.Coordinates
	pdf.MultiCell(0, 5, fmt.Sprintf("Location: (%.0f, %.0f) %.0fx%.0f", c.X, c.Y, c.Width, c.Height), "", "L", false)

	bullets := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		pdf.MultiCell(0, 5, title, "", "L", false)
		for _, s := range items {
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 5, tr("• "+s), "", "L", false)
		}
	}
	bullets("Recommendations:", item.Recommendations)

	lines := make([]string, len(comments))
	for i, cm := range comments {
		lines[i] = fmt.Sprintf("%s: %s", cm.Author.Name, cm.Content)
	}
	bullets("Comments:", lines)

	pdf.Ln(4)
}

// writeCounts lists non-zero counts in key order
func writeCounts(pdf *fpdf.Fpdf, title string, counts map[string]int) {
	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 12)

	keys := make([]string, 0, len(counts))
	for k, v := range counts {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	if len(keys) == 0 {
		pdf.CellFormat(0, pdfLineHeight, "    none", "", 1, "L", false, 0, "")
		return
	}
	for _, k := range keys {
		pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("    %s: %d", k, counts[k]), "", 1, "L", false, 0, "")
	}
}
