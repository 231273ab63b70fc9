// Package charge contains charge-related use cases.
package charge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for charge descriptions.
const MaxDescriptionLength = 255

// RecordChargeInput represents the input for posting a charge.
type RecordChargeInput struct {
	ResidentID  string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Scope       adapter.CommunityScope
}

// RecordChargeOutput represents the output of posting a charge.
type RecordChargeOutput struct {
	Charge *entity.Charge
}

// RecordChargeUseCase posts a one-off charge to a resident.
type RecordChargeUseCase struct {
	residentRepo adapter.ResidentRepository
	chargeRepo   adapter.ChargeRepository
	cache        adapter.DelinquencyCache
}

// NewRecordChargeUseCase creates a new RecordChargeUseCase instance.
func NewRecordChargeUseCase(
	residentRepo adapter.ResidentRepository,
	chargeRepo adapter.ChargeRepository,
	cache adapter.DelinquencyCache,
) *RecordChargeUseCase {
	return &RecordChargeUseCase{
		residentRepo: residentRepo,
		chargeRepo:   chargeRepo,
		cache:        cache,
	}
}

// Execute validates and stores the charge.
func (uc *RecordChargeUseCase) Execute(ctx context.Context, input RecordChargeInput) (*RecordChargeOutput, error) {
	if input.Date.IsZero() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidDate,
			"charge date is required",
			domainerror.ErrInvalidDate,
		)
	}

	if !input.Amount.IsPositive() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"charge amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}

	description := strings.TrimSpace(input.Description)
	if len(description) > MaxDescriptionLength {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeMissingFields,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			nil,
		)
	}

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

	charge := entity.NewCharge(resident.ID, resident.CommunityID, input.Date, description, input.Amount)
	if err := uc.chargeRepo.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	invalidateReports(ctx, uc.cache, resident.CommunityID)

	return &RecordChargeOutput{Charge: charge}, nil
}

// invalidateReports drops the community's cached delinquency reports.
func invalidateReports(ctx context.Context, cache adapter.DelinquencyCache, communityID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, communityID); err != nil {
		slog.Warn("Failed to invalidate delinquency cache", "communityID", communityID, "error", err)
	}
}
