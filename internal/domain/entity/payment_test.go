package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

func TestPayment_TransitionTo(t *testing.T) {
	newPending := func() *Payment {
		return NewPayment("r1", "com-1", time.Now(), decimal.NewFromInt(100), "Transferencia")
	}

	t.Run("new payments start pending", func(t *testing.T) {
		p := newPending()
		if p.Status != PaymentStatusPending || p.IsApplied() {
			t.Errorf("expected pending unapplied payment, got %s", p.Status)
		}
	})

	t.Run("pending payment can be applied", func(t *testing.T) {
		p := newPending()
		if err := p.TransitionTo(PaymentStatusApplied); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.IsApplied() {
			t.Error("expected payment to be applied")
		}
	})

	t.Run("applied payment cannot be rejected", func(t *testing.T) {
		p := newPending()
		_ = p.TransitionTo(PaymentStatusApplied)
		if err := p.TransitionTo(PaymentStatusRejected); !errors.Is(err, domainerror.ErrPaymentNotPending) {
			t.Errorf("expected ErrPaymentNotPending, got %v", err)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		p := newPending()
		if err := p.TransitionTo(PaymentStatus("PAGADO")); !errors.Is(err, domainerror.ErrInvalidPaymentStatus) {
			t.Errorf("expected ErrInvalidPaymentStatus, got %v", err)
		}
	})

	t.Run("moving back to pending is rejected", func(t *testing.T) {
		p := newPending()
		if err := p.TransitionTo(PaymentStatusPending); !errors.Is(err, domainerror.ErrInvalidPaymentStatus) {
			t.Errorf("expected ErrInvalidPaymentStatus, got %v", err)
		}
	})
}
