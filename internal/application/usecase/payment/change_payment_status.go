package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// ChangePaymentStatusInput represents the input for settling a payment.
type ChangePaymentStatusInput struct {
	PaymentID string
	Status    entity.PaymentStatus
	Scope     adapter.CommunityScope
}

// ChangePaymentStatusOutput represents the output of settling a payment.
type ChangePaymentStatusOutput struct {
	Payment        *entity.Payment
	PreviousStatus entity.PaymentStatus
}

// ChangePaymentStatusUseCase applies, rejects or cancels a pending payment.
type ChangePaymentStatusUseCase struct {
	paymentRepo adapter.PaymentRepository
	cache       adapter.DelinquencyCache
}

// NewChangePaymentStatusUseCase creates a new ChangePaymentStatusUseCase instance.
func NewChangePaymentStatusUseCase(paymentRepo adapter.PaymentRepository, cache adapter.DelinquencyCache) *ChangePaymentStatusUseCase {
	return &ChangePaymentStatusUseCase{
		paymentRepo: paymentRepo,
		cache:       cache,
	}
}

// Execute moves the payment to the requested status.
func (uc *ChangePaymentStatusUseCase) Execute(ctx context.Context, input ChangePaymentStatusInput) (*ChangePaymentStatusOutput, error) {
	payment, err := uc.paymentRepo.FindByID(ctx, input.PaymentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrPaymentNotFound) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodePaymentNotFound,
				"payment not found",
				domainerror.ErrPaymentNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	if !input.Scope.Allows(payment.CommunityID) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCommunityForbidden,
			"not authorized to access this community",
			domainerror.ErrMissingCommunityScope,
		)
	}

	previous := payment.Status
	if err := payment.TransitionTo(input.Status); err != nil {
		switch {
		case errors.Is(err, domainerror.ErrPaymentNotPending):
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodePaymentNotPending,
				fmt.Sprintf("payment is already %s", previous),
				err,
			)
		default:
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidPaymentStatus,
				"status must be APLICADO, RECHAZADO or CANCELADO",
				err,
			)
		}
	}

	if err := uc.paymentRepo.UpdateStatus(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	if payment.IsApplied() {
		invalidateReports(ctx, uc.cache, payment.CommunityID)
	}

	slog.Info("Payment status changed",
		"paymentID", payment.ID,
		"from", previous,
		"to", payment.Status,
	)
	return &ChangePaymentStatusOutput{Payment: payment, PreviousStatus: previous}, nil
}
