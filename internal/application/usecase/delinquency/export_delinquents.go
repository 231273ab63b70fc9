package delinquency

import (
	"context"
	"fmt"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// ExportDelinquentsInput represents the input for rendering a delinquency report.
type ExportDelinquentsInput struct {
	ListDelinquentsInput
	Format adapter.ReportFormat // Empty selects the default exporter
}

// ExportDelinquentsOutput represents a rendered delinquency report.
type ExportDelinquentsOutput struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportDelinquentsUseCase renders a community's delinquency report as a downloadable document.
type ExportDelinquentsUseCase struct {
	listDelinquents *ListDelinquentsUseCase
	exporters       []adapter.ReportExporter
}

// NewExportDelinquentsUseCase creates a new ExportDelinquentsUseCase instance.
// The first exporter is the default.
func NewExportDelinquentsUseCase(listDelinquents *ListDelinquentsUseCase, exporters ...adapter.ReportExporter) *ExportDelinquentsUseCase {
	return &ExportDelinquentsUseCase{
		listDelinquents: listDelinquents,
		exporters:       exporters,
	}
}

// Execute classifies the community and renders the result.
func (uc *ExportDelinquentsUseCase) Execute(ctx context.Context, input ExportDelinquentsInput) (*ExportDelinquentsOutput, error) {
	exporter, ok := adapter.SelectExporter(uc.exporters, input.Format)
	if !ok {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeUnsupportedFormat,
			fmt.Sprintf("format %q is not supported", input.Format),
			domainerror.ErrUnsupportedFormat,
		)
	}

	out, err := uc.listDelinquents.Execute(ctx, input.ListDelinquentsInput)
	if err != nil {
		return nil, err
	}

	content, err := exporter.DelinquencyReport(out.Community.ID, out.Report, out.Residents)
	if err != nil {
		return nil, fmt.Errorf("failed to render delinquency report: %w", err)
	}

	return &ExportDelinquentsOutput{
		FileName:    fmt.Sprintf("morosos-%s-%s.%s", out.Community.ID, out.Report.AsOf.Format(valueobject.DateLayout), exporter.Format()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}
