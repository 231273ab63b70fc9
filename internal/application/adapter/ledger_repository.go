// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/condo-portal/ledger/internal/domain/entity"
)

// ChargeRepository provides access to charge records.
type ChargeRepository interface {
	// Create stores a new charge.
	Create(ctx context.Context, charge *entity.Charge) error

	// CreateIfAbsent stores a charge unless one with the same ID exists.
	// It reports whether the charge was inserted.
	CreateIfAbsent(ctx context.Context, charge *entity.Charge) (bool, error)

	// FindByResident returns every charge of a resident, in no particular order.
	FindByResident(ctx context.Context, residentID string) ([]entity.Charge, error)

	// FindByCommunity returns every charge of every resident of a community.
	FindByCommunity(ctx context.Context, communityID string) ([]entity.Charge, error)
}

// PaymentRepository provides access to payment records.
type PaymentRepository interface {
	// Create stores a new payment.
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByID retrieves a payment by its ID.
	FindByID(ctx context.Context, id string) (*entity.Payment, error)

	// UpdateStatus persists a status change of a payment.
	UpdateStatus(ctx context.Context, payment *entity.Payment) error

	// FindByResident returns every payment of a resident, in no particular order.
	FindByResident(ctx context.Context, residentID string) ([]entity.Payment, error)

	// FindByCommunity returns every payment of every resident of a community.
	FindByCommunity(ctx context.Context, communityID string) ([]entity.Payment, error)
}

// ResidentRepository provides read access to the resident directory.
type ResidentRepository interface {
	// FindByID retrieves a resident by its ID.
	FindByID(ctx context.Context, id string) (*entity.Resident, error)

	// FindByCommunity returns the residents of a community ordered by unit.
	FindByCommunity(ctx context.Context, communityID string) ([]entity.Resident, error)
}

// CommunityRepository provides read access to communities.
type CommunityRepository interface {
	// FindByID retrieves a community by its ID.
	FindByID(ctx context.Context, id string) (*entity.Community, error)
}

// CommunityConfigRepository provides access to a community's keyed configuration.
type CommunityConfigRepository interface {
	// FindByCommunity returns every configuration entry of a community.
	FindByCommunity(ctx context.Context, communityID string) ([]entity.ConfigEntry, error)

	// Upsert creates or replaces a configuration entry.
	Upsert(ctx context.Context, entry entity.ConfigEntry) error
}

// DelinquencyCache stores computed delinquency reports per community and date.
type DelinquencyCache interface {
	// Get returns a cached report, or nil when there is none.
	Get(ctx context.Context, communityID string, asOf time.Time) (*entity.DelinquencyReport, error)

	// Generation returns the community's invalidation counter. Read it before
	// loading the data a report is computed from.
	Generation(ctx context.Context, communityID string) (int64, error)

	// Set stores a report computed under generation. It stores nothing and
	// returns false when the community was invalidated since.
	Set(ctx context.Context, communityID string, generation int64, report *entity.DelinquencyReport) (bool, error)

	// Invalidate bumps the generation and drops every cached report of a community.
	Invalidate(ctx context.Context, communityID string) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// LedgerMetrics records reconciliation activity.
type LedgerMetrics interface {
	// LedgerBuilt records one ledger computation.
	LedgerBuilt(rows, warnings int)

	// DelinquencyClassified records one classification run.
	DelinquencyClassified(residents, delinquents, warnings int, cached bool)

	// ProviderFailed records a data provider that failed and was replaced with empty data.
	ProviderFailed(provider string)
}

// NoticeMetrics records the delivery of queued delinquency notices.
type NoticeMetrics interface {
	// NoticeDelivered records the outcome of one delivery attempt: sent, retried or failed.
	NoticeDelivered(outcome string)
}

// ReportFormat identifies a document format an exporter produces.
type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ReportExporter renders ledger and delinquency data as downloadable documents.
type ReportExporter interface {
	// Format returns the document format, also used as file extension.
	Format() ReportFormat

	// ContentType returns the MIME type of the rendered documents.
	ContentType() string

	// ResidentStatement renders a resident ledger.
	ResidentStatement(resident *entity.Resident, ledger entity.LedgerResult, asOf time.Time) ([]byte, error)

	// DelinquencyReport renders the delinquent residents of a community.
	DelinquencyReport(communityID string, report *entity.DelinquencyReport, residents map[string]entity.Resident) ([]byte, error)
}

// SelectExporter returns the exporter for format. An empty format selects the first exporter.
func SelectExporter(exporters []ReportExporter, format ReportFormat) (ReportExporter, bool) {
	if len(exporters) == 0 {
		return nil, false
	}
	if format == "" {
		return exporters[0], true
	}
	for _, e := range exporters {
		if e.Format() == format {
			return e, true
		}
	}
	return nil, false
}
