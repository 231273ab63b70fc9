package ledger

import (
	"context"
	"fmt"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// ExportResidentLedgerInput represents the input for rendering an account statement.
type ExportResidentLedgerInput struct {
	GetResidentLedgerInput
	Format adapter.ReportFormat // Empty selects the default exporter
}

// ExportResidentLedgerOutput represents a rendered account statement.
type ExportResidentLedgerOutput struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportResidentLedgerUseCase renders a resident ledger as a downloadable document.
type ExportResidentLedgerUseCase struct {
	getLedger *GetResidentLedgerUseCase
	exporters []adapter.ReportExporter
}

// NewExportResidentLedgerUseCase creates a new ExportResidentLedgerUseCase instance.
// The first exporter is the default.
func NewExportResidentLedgerUseCase(getLedger *GetResidentLedgerUseCase, exporters ...adapter.ReportExporter) *ExportResidentLedgerUseCase {
	return &ExportResidentLedgerUseCase{
		getLedger: getLedger,
		exporters: exporters,
	}
}

// Execute builds the ledger and renders it.
func (uc *ExportResidentLedgerUseCase) Execute(ctx context.Context, input ExportResidentLedgerInput) (*ExportResidentLedgerOutput, error) {
	exporter, ok := adapter.SelectExporter(uc.exporters, input.Format)
	if !ok {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeUnsupportedFormat,
			fmt.Sprintf("format %q is not supported", input.Format),
			domainerror.ErrUnsupportedFormat,
		)
	}

	out, err := uc.getLedger.Execute(ctx, input.GetResidentLedgerInput)
	if err != nil {
		return nil, err
	}

	content, err := exporter.ResidentStatement(out.Resident, out.Ledger, out.AsOf)
	if err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}

	return &ExportResidentLedgerOutput{
		FileName:    fmt.Sprintf("estado-de-cuenta-%s-%s.%s", out.Resident.ID, out.AsOf.Format(valueobject.DateLayout), exporter.Format()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}
