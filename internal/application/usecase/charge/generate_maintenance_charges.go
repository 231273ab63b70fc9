package charge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/service"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// GenerateMaintenanceChargesInput represents the input for billing a month of maintenance.
type GenerateMaintenanceChargesInput struct {
	CommunityID string
	Month       string // Format: "YYYY-MM"
	Scope       adapter.CommunityScope
}

// GenerateMaintenanceChargesOutput summarizes a billing run.
type GenerateMaintenanceChargesOutput struct {
	Month   string
	Amount  decimal.Decimal
	Created int
	Skipped int // Residents already billed for the month
}

// GenerateMaintenanceChargesUseCase posts the monthly maintenance charge to every
// active resident of a community. Running it twice for the same month is a no-op.
type GenerateMaintenanceChargesUseCase struct {
	communityRepo adapter.CommunityRepository
	residentRepo  adapter.ResidentRepository
	configRepo    adapter.CommunityConfigRepository
	chargeRepo    adapter.ChargeRepository
	cache         adapter.DelinquencyCache
}

// NewGenerateMaintenanceChargesUseCase creates a new GenerateMaintenanceChargesUseCase instance.
func NewGenerateMaintenanceChargesUseCase(
	communityRepo adapter.CommunityRepository,
	residentRepo adapter.ResidentRepository,
	configRepo adapter.CommunityConfigRepository,
	chargeRepo adapter.ChargeRepository,
	cache adapter.DelinquencyCache,
) *GenerateMaintenanceChargesUseCase {
	return &GenerateMaintenanceChargesUseCase{
		communityRepo: communityRepo,
		residentRepo:  residentRepo,
		configRepo:    configRepo,
		chargeRepo:    chargeRepo,
		cache:         cache,
	}
}

// MaintenanceChargeID returns the deterministic ID of a resident's maintenance charge for a month.
func MaintenanceChargeID(residentID, month string) string {
	return fmt.Sprintf("mant-%s-%s", residentID, month)
}

// Execute bills the month.
func (uc *GenerateMaintenanceChargesUseCase) Execute(ctx context.Context, input GenerateMaintenanceChargesInput) (*GenerateMaintenanceChargesOutput, error) {
	monthStart, err := valueobject.ParseMonth(input.Month)
	if err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidMonth,
			"month must be in YYYY-MM format",
			domainerror.ErrInvalidMonth,
		)
	}
	month := monthStart.Format(valueobject.MonthLayout)

	if !input.Scope.Allows(input.CommunityID) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCommunityForbidden,
			"not authorized to access this community",
			domainerror.ErrMissingCommunityScope,
		)
	}

	if _, err := uc.communityRepo.FindByID(ctx, input.CommunityID); err != nil {
		if errors.Is(err, domainerror.ErrCommunityNotFound) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeCommunityNotFound,
				"community not found",
				domainerror.ErrCommunityNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	entries, err := uc.configRepo.FindByCommunity(ctx, input.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load community configuration: %w", err)
	}
	amount, configured := service.MonthlyMaintenance(entries)
	if !configured {
		slog.Warn("Maintenance amount not configured, using default",
			"communityID", input.CommunityID,
			"amount", amount.StringFixed(2),
		)
	}

	residents, err := uc.residentRepo.FindByCommunity(ctx, input.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load residents: %w", err)
	}

	output := &GenerateMaintenanceChargesOutput{Month: month, Amount: amount}
	for _, r := range residents {
		if !r.Active {
			continue
		}

		charge := entity.NewCharge(r.ID, r.CommunityID, monthStart, "Mantenimiento "+month, amount)
		charge.ID = MaintenanceChargeID(r.ID, month)

		created, err := uc.chargeRepo.CreateIfAbsent(ctx, charge)
		if err != nil {
			return nil, fmt.Errorf("failed to create maintenance charge for resident %s: %w", r.ID, err)
		}
		if created {
			output.Created++
		} else {
			output.Skipped++
		}
	}

	if output.Created > 0 {
		invalidateReports(ctx, uc.cache, input.CommunityID)
	}

	slog.Info("Maintenance charges generated",
		"communityID", input.CommunityID,
		"month", month,
		"created", output.Created,
		"skipped", output.Skipped,
	)
	return output, nil
}
