package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/synth"

	"github.com/go-pdf/fpdf"
)

const (
	reportTitle      = "ZemedicAI Diagnostic Report"
	reportDisclaimer = "This report was generated by a demonstration system. The findings are synthetic and must not be used for clinical decisions."
)

type pdfRenderer struct {
	// now stamps the PDF creation date; fixed in tests.
	now func() time.Time
}

func NewPDFRenderer() contracts.ReportRenderer {
	return &pdfRenderer{now: time.Now}
}

func (r *pdfRenderer) Render(analysis *models.Analysis) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(reportTitle, true)
	pdf.SetCreator("zemedic-service", true)
	pdf.SetCreationDate(r.now())
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 4.5, reportDisclaimer, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	r.details(pdf, tr, analysis)
	r.conditions(pdf, tr, analysis)

	section(pdf, "Findings")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5.5, tr(analysis.Findings), "", "L", false)
	pdf.Ln(2)

	section(pdf, "Recommendation")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5.5, tr(analysis.Recommendation), "", "L", false)
	for _, advice := range analysis.Recommendations {
		pdf.MultiCell(0, 5.5, tr("- "+advice), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) details(pdf *fpdf.Fpdf, tr func(string) string, analysis *models.Analysis) {
	rows := [][2]string{
		{"Analysis ID", analysis.ID.Hex()},
		{"Type", strings.ToUpper(analysis.Modality.PathName())},
		{"Date", analysis.CreatedAt.UTC().Format("2006-01-02 15:04 MST")},
		{"Confidence", fmt.Sprintf("%d%%", analysis.Confidence)},
		{"Seed", fmt.Sprintf("%d", analysis.Seed)},
	}
	if img := analysis.Image; img.Width > 0 {
		rows = append(rows, [2]string{"Image", fmt.Sprintf("%s, %dx%d %s", img.FileName, img.Width, img.Height, img.Format)})
	}
	if dicom := analysis.Image.DICOM; dicom != nil && dicom.StudyDescription != "" {
		rows = append(rows, [2]string{"Study", dicom.StudyDescription})
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *pdfRenderer) conditions(pdf *fpdf.Fpdf, tr func(string) string, analysis *models.Analysis) {
	section(pdf, "Conditions")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 238, 245)
	pdf.CellFormat(100, 7, "Condition", "B", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "Severity", "B", 0, "L", true, 0, "")
	pdf.CellFormat(0, 7, "Probability", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, c := range analysis.Conditions {
		name := c.Name
		if i == 0 {
			name += " (primary)"
		}
		red, green, blue := severityRGB(c.Severity)
		pdf.SetTextColor(red, green, blue)
		pdf.CellFormat(100, 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, string(c.Severity), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d%%", c.Probability), "", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

// severityRGB darkens the heatmap palette so it stays legible on paper.
func severityRGB(s synth.Severity) (int, int, int) {
	switch synth.SeverityColor(s) {
	case "#FF3366":
		return 190, 20, 60
	case "#FFCC00":
		return 170, 120, 0
	default:
		return 0, 110, 150
	}
}
