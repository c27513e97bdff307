package history

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calcerr"
)

// Page geometry of the PDF report, in inches.
const (
	pageHeight  = 11.0
	margin      = 1.0
	titleY      = 0.5
	firstLineY  = 1.0
	lineStep    = 0.25
	bottomLimit = pageHeight - margin
)

// ReportTitle heads the PDF report.
const ReportTitle = "Integral Report"

// glyphs the core fonts lack, mapped to their Adobe Symbol encoding.
var symbolGlyphs = map[rune]string{
	'∫': "\xf2",
	'≈': "\xbb",
	'π': "p",
	'∞': "\xa5",
}

// ReportLine is the PDF line for one record.
func ReportLine(r Record) string {
	value := r.Definite
	if v, ok := r.Number(); ok {
		value = fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("∫(%s) dx from %s to %s ≈ %s", r.Function, r.Lower, r.Upper, value)
}

// ExportPDF writes a letter-sized report with one line per record.
func (s *Store) ExportPDF(path string) error {
	records := s.Records()
	if len(records) == 0 {
		return ErrEmpty
	}
	doc := fpdf.New("P", "in", "Letter", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, margin)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Text(margin, titleY, ReportTitle)

	y := firstLineY
	for _, r := range records {
		if y > bottomLimit {
			doc.AddPage()
			y = firstLineY
		}
		writeMixed(doc, tr, margin, y, ReportLine(r))
		y += lineStep
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		return calcerr.IOError("history.export_pdf", path, err)
	}
	s.log.Info("pdf report exported", zap.String("path", path), zap.Int("records", len(records)),
		zap.Int("pages", doc.PageCount()))
	return nil
}

// writeMixed draws text at baseline y, switching to the Symbol font for
// glyphs Helvetica cannot encode.
func writeMixed(doc *fpdf.Fpdf, tr func(string) string, x, y float64, text string) {
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		doc.SetFont("Helvetica", "", 12)
		s := tr(run.String())
		doc.Text(x, y, s)
		x += doc.GetStringWidth(s)
		run.Reset()
	}
	for _, r := range text {
		glyph, ok := symbolGlyphs[r]
		if !ok {
			run.WriteRune(r)
			continue
		}
		flush()
		doc.SetFont("Symbol", "", 12)
		doc.Text(x, y, glyph)
		x += doc.GetStringWidth(glyph)
	}
	flush()
}

// ReportPages opens an exported report and counts its pages.
func ReportPages(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, calcerr.IOError("history.report_pages", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// ReportText extracts the plain text of every page of a report.
func ReportText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", calcerr.IOError("history.report_text", path, err)
	}
	defer f.Close()
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", calcerr.IOError("history.report_text", path, fmt.Errorf("page %d: %w", i, err))
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
