// Package ledger contains resident ledger use cases.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/service"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// GetResidentLedgerInput represents the input for building a resident ledger.
type GetResidentLedgerInput struct {
	ResidentID string
	AsOf       *time.Time // Overrides today's date in the community time zone
	Scope      adapter.CommunityScope
}

// GetResidentLedgerOutput represents the output of building a resident ledger.
type GetResidentLedgerOutput struct {
	Resident       *entity.Resident
	AsOf           time.Time
	Ledger         entity.LedgerResult
	CurrentBalance decimal.Decimal
}

// GetResidentLedgerUseCase builds the balance-annotated history of one resident.
type GetResidentLedgerUseCase struct {
	residentRepo    adapter.ResidentRepository
	communityRepo   adapter.CommunityRepository
	chargeRepo      adapter.ChargeRepository
	paymentRepo     adapter.PaymentRepository
	clock           adapter.Clock
	metrics         adapter.LedgerMetrics
	defaultLocation *time.Location
}

// NewGetResidentLedgerUseCase creates a new GetResidentLedgerUseCase instance.
func NewGetResidentLedgerUseCase(
	residentRepo adapter.ResidentRepository,
	communityRepo adapter.CommunityRepository,
	chargeRepo adapter.ChargeRepository,
	paymentRepo adapter.PaymentRepository,
	clock adapter.Clock,
	metrics adapter.LedgerMetrics,
	defaultLocation *time.Location,
) *GetResidentLedgerUseCase {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &GetResidentLedgerUseCase{
		residentRepo:    residentRepo,
		communityRepo:   communityRepo,
		chargeRepo:      chargeRepo,
		paymentRepo:     paymentRepo,
		clock:           clock,
		metrics:         metrics,
		defaultLocation: defaultLocation,
	}
}

// Execute loads the resident's records and reconciles them.
func (uc *GetResidentLedgerUseCase) Execute(ctx context.Context, input GetResidentLedgerInput) (*GetResidentLedgerOutput, error) {
	resident, err := uc.residentRepo.FindByID(ctx, input.ResidentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrResidentNotFound) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeResidentNotFound,
				"resident not found",
				domainerror.ErrResidentNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find resident: %w", err)
	}

	if !input.Scope.Allows(resident.CommunityID) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCommunityForbidden,
			"not authorized to access this community",
			domainerror.ErrMissingCommunityScope,
		)
	}

	asOf := uc.resolveAsOf(ctx, resident.CommunityID, input.AsOf)

	charges, payments, err := uc.fetchRecords(ctx, resident.ID)
	if err != nil {
		return nil, err
	}

	result := service.BuildLedger(charges, payments, asOf)
	for _, w := range result.Warnings {
		slog.Warn("Excluded malformed record from ledger",
			"kind", w.Kind,
			"sourceID", w.SourceID,
			"residentID", w.ResidentID,
			"reason", w.Reason,
		)
	}
	if uc.metrics != nil {
		uc.metrics.LedgerBuilt(len(result.Rows), len(result.Warnings))
	}

	return &GetResidentLedgerOutput{
		Resident:       resident,
		AsOf:           asOf,
		Ledger:         result,
		CurrentBalance: result.CurrentBalance(),
	}, nil
}

// fetchRecords loads charges and payments in parallel. Both must succeed:
// a ledger over a partial snapshot would show a wrong running balance.
func (uc *GetResidentLedgerUseCase) fetchRecords(ctx context.Context, residentID string) ([]entity.Charge, []entity.Payment, error) {
	var (
		wg                    sync.WaitGroup
		charges               []entity.Charge
		payments              []entity.Payment
		chargeErr, paymentErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		charges, chargeErr = uc.chargeRepo.FindByResident(ctx, residentID)
	}()
	go func() {
		defer wg.Done()
		payments, paymentErr = uc.paymentRepo.FindByResident(ctx, residentID)
	}()
	wg.Wait()

	if chargeErr != nil {
		uc.providerFailed("charges")
		return nil, nil, fmt.Errorf("failed to fetch charges: %w", chargeErr)
	}
	if paymentErr != nil {
		uc.providerFailed("payments")
		return nil, nil, fmt.Errorf("failed to fetch payments: %w", paymentErr)
	}
	return charges, payments, nil
}

func (uc *GetResidentLedgerUseCase) resolveAsOf(ctx context.Context, communityID string, override *time.Time) time.Time {
	if override != nil {
		return valueobject.DateOnly(*override)
	}

	loc := uc.defaultLocation
	community, err := uc.communityRepo.FindByID(ctx, communityID)
	if err != nil {
		slog.Warn("Failed to load community, using default time zone",
			"communityID", communityID,
			"error", err,
		)
	} else {
		loc = valueobject.LocationOrDefault(community.Timezone, uc.defaultLocation)
	}
	return valueobject.TodayIn(uc.clock.Now(), loc)
}

func (uc *GetResidentLedgerUseCase) providerFailed(provider string) {
	if uc.metrics != nil {
		uc.metrics.ProviderFailed(provider)
	}
}
