package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// pdfExporter implements adapter.ReportExporter with gofpdf.
type pdfExporter struct {
	compress bool
}

// NewPDFExporter creates a printable statement exporter.
func NewPDFExporter() adapter.ReportExporter {
	return &pdfExporter{compress: true}
}

// Format implements adapter.ReportExporter.
func (e *pdfExporter) Format() adapter.ReportFormat {
	return adapter.ReportFormatPDF
}

// ContentType implements adapter.ReportExporter.
func (e *pdfExporter) ContentType() string {
	return "application/pdf"
}

// ResidentStatement renders a printable account statement.
func (e *pdfExporter) ResidentStatement(resident *entity.Resident, ledger entity.LedgerResult, asOf time.Time) ([]byte, error) {
	pdf := e.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Estado de cuenta")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Residente: %s", resident.Name)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Unidad: %s", resident.Unit)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Fecha de corte: %s", asOf.Format(valueobject.DateLayout)))
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Saldo: %s", pdfMoney(ledger.CurrentBalance())))
	pdf.Ln(10)

	widths := []float64{24, 16, 62, 24, 24, 20}
	headers := []string{"Fecha", "Tipo", "Concepto", "Cargo", "Abono", "Saldo"}
	writePDFHeader(pdf, widths, headers)

	pdf.SetFont("Arial", "", 9)
	for _, row := range ledger.Rows {
		charge, payment := "", ""
		if row.Kind == entity.LedgerRowCharge {
			charge = pdfMoney(row.ChargeAmount)
		} else {
			payment = pdfMoney(row.PaymentAmount)
			if !row.IsApplied {
				payment += " *"
			}
		}
		pdf.CellFormat(widths[0], 6, row.Date.Format(valueobject.DateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, kindLabel(row.Kind), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(truncate(row.Description, 40)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, charge, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, payment, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, pdfMoney(row.RunningBalanceAfter), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, tr("* Pago pendiente de aplicación; no reduce el saldo."))

	return e.render(pdf)
}

// DelinquencyReport renders the printable list of delinquent residents.
func (e *pdfExporter) DelinquencyReport(communityID string, report *entity.DelinquencyReport, residents map[string]entity.Resident) ([]byte, error) {
	pdf := e.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Reporte de morosos")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Comunidad: %s", communityID)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Fecha de corte: %s", report.AsOf.Format(valueobject.DateLayout)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Umbral: %s", pdfMoney(report.Threshold)))
	pdf.Ln(10)

	widths := []float64{50, 24, 28, 28, 28}
	headers := []string{"Nombre", "Unidad", "Cargos", "Pagos", "Saldo"}
	writePDFHeader(pdf, widths, headers)

	pdf.SetFont("Arial", "", 9)
	for _, result := range report.Results {
		resident := residents[result.ResidentID]
		name := resident.Name
		if name == "" {
			name = result.ResidentID
		}
		pdf.CellFormat(widths[0], 6, tr(truncate(name, 30)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(resident.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, pdfMoney(result.TotalCharges), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, pdfMoney(result.TotalPayments), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, pdfMoney(result.Balance), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	return e.render(pdf)
}

func (e *pdfExporter) newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.AddPage()
	return pdf
}

func (e *pdfExporter) render(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFHeader(pdf *gofpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

func pdfMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
