// Package export renders ledgers and delinquency reports as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

const (
	summarySheet     = "resumen"
	movementsSheet   = "movimientos"
	delinquentsSheet = "morosos"
)

// xlsxExporter implements adapter.ReportExporter with excelize.
type xlsxExporter struct{}

// NewXLSXExporter creates a spreadsheet exporter.
func NewXLSXExporter() adapter.ReportExporter {
	return &xlsxExporter{}
}

// Format implements adapter.ReportExporter.
func (e *xlsxExporter) Format() adapter.ReportFormat {
	return adapter.ReportFormatXLSX
}

// ContentType implements adapter.ReportExporter.
func (e *xlsxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ResidentStatement renders the account statement of one resident.
// Movements are listed most recent first, as in the ledger.
func (e *xlsxExporter) ResidentStatement(resident *entity.Resident, ledger entity.LedgerResult, asOf time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(movementsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Estado de cuenta")
	_ = f.SetCellValue(summarySheet, "A3", "Residente")
	_ = f.SetCellValue(summarySheet, "B3", resident.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Unidad")
	_ = f.SetCellValue(summarySheet, "B4", resident.Unit)
	_ = f.SetCellValue(summarySheet, "A5", "Fecha de corte")
	_ = f.SetCellValue(summarySheet, "B5", asOf.Format(valueobject.DateLayout))
	_ = f.SetCellValue(summarySheet, "A6", "Saldo")
	_ = f.SetCellValue(summarySheet, "B6", money(ledger.CurrentBalance()))

	headers := []string{"Fecha", "Tipo", "Concepto", "Cargo", "Abono", "Aplicado", "Saldo", "Referencia"}
	if err := writeHeader(f, movementsSheet, headers); err != nil {
		return nil, err
	}
	for i, row := range ledger.Rows {
		line := i + 2
		values := []interface{}{
			row.Date.Format(valueobject.DateLayout),
			kindLabel(row.Kind),
			row.Description,
			optionalMoney(row.Kind == entity.LedgerRowCharge, row.ChargeAmount),
			optionalMoney(row.Kind == entity.LedgerRowPayment, row.PaymentAmount),
			appliedLabel(row),
			money(row.RunningBalanceAfter),
			row.SourceID,
		}
		if err := writeRow(f, movementsSheet, line, values); err != nil {
			return nil, err
		}
	}

	return render(f)
}

// DelinquencyReport renders the delinquent residents of a community.
func (e *xlsxExporter) DelinquencyReport(communityID string, report *entity.DelinquencyReport, residents map[string]entity.Resident) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", delinquentsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(delinquentsSheet, "A1", "Comunidad")
	_ = f.SetCellValue(delinquentsSheet, "B1", communityID)
	_ = f.SetCellValue(delinquentsSheet, "A2", "Fecha de corte")
	_ = f.SetCellValue(delinquentsSheet, "B2", report.AsOf.Format(valueobject.DateLayout))
	_ = f.SetCellValue(delinquentsSheet, "A3", "Umbral")
	_ = f.SetCellValue(delinquentsSheet, "B3", money(report.Threshold))

	const headerRow = 5
	headers := []string{"Residente", "Nombre", "Unidad", "Cargos", "Pagos", "Saldo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(delinquentsSheet, cell, h)
	}

	for i, result := range report.Results {
		resident := residents[result.ResidentID]
		values := []interface{}{
			result.ResidentID,
			resident.Name,
			resident.Unit,
			money(result.TotalCharges),
			money(result.TotalPayments),
			money(result.Balance),
		}
		if err := writeRow(f, delinquentsSheet, headerRow+1+i, values); err != nil {
			return nil, err
		}
	}

	return render(f)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, sheet, 1, values)
}

func writeRow(f *excelize.File, sheet string, line int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func render(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalMoney(set bool, d decimal.Decimal) interface{} {
	if !set {
		return ""
	}
	return money(d)
}

func kindLabel(kind entity.LedgerRowKind) string {
	if kind == entity.LedgerRowCharge {
		return "Cargo"
	}
	return "Pago"
}

func appliedLabel(row entity.LedgerRow) string {
	if row.Kind != entity.LedgerRowPayment {
		return ""
	}
	if row.IsApplied {
		return "Sí"
	}
	return "No"
}
