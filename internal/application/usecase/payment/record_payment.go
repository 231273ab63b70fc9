// Package payment contains payment-related use cases.
package payment

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

// RecordPaymentInput represents the input for registering a payment.
type RecordPaymentInput struct {
	ResidentID  string
	PaymentDate time.Time
	Amount      decimal.Decimal
	Concept     string
	Apply       bool // Register the payment as already confirmed
	Scope       adapter.CommunityScope
}

// RecordPaymentOutput represents the output of registering a payment.
type RecordPaymentOutput struct {
	Payment *entity.Payment
}

// RecordPaymentUseCase registers a payment made by a resident.
type RecordPaymentUseCase struct {
	residentRepo adapter.ResidentRepository
	paymentRepo  adapter.PaymentRepository
	cache        adapter.DelinquencyCache
}

// NewRecordPaymentUseCase creates a new RecordPaymentUseCase instance.
func NewRecordPaymentUseCase(
	residentRepo adapter.ResidentRepository,
	paymentRepo adapter.PaymentRepository,
	cache adapter.DelinquencyCache,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		residentRepo: residentRepo,
		paymentRepo:  paymentRepo,
		cache:        cache,
	}
}

// Execute validates and stores the payment.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, input RecordPaymentInput) (*RecordPaymentOutput, error) {
	if input.PaymentDate.IsZero() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidDate,
			"payment date is required",
			domainerror.ErrInvalidDate,
		)
	}

	if !input.Amount.IsPositive() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidAmount,
			"payment amount must be greater than zero",
			domainerror.ErrInvalidAmount,
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

	payment := entity.NewPayment(resident.ID, resident.CommunityID, input.PaymentDate, input.Amount, strings.TrimSpace(input.Concept))
	if input.Apply {
		if err := payment.Apply(); err != nil {
			return nil, fmt.Errorf("failed to apply payment: %w", err)
		}
	}

	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	invalidateReports(ctx, uc.cache, resident.CommunityID)

	return &RecordPaymentOutput{Payment: payment}, nil
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
