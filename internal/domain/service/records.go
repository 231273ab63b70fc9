// Package service contains the pure reconciliation logic of the resident ledger.
// Functions in this package perform no I/O and never read the system clock.
package service

import (
	"strings"

	"github.com/condo-portal/ledger/internal/domain/entity"
)

const (
	// DefaultChargeLabel is shown for charges posted without a description.
	DefaultChargeLabel = "Cargo"
	// DefaultPaymentLabel is shown for payments recorded without a concept.
	DefaultPaymentLabel = "Pago"
)

const (
	reasonMissingDate    = "missing or unparsable date"
	reasonNegativeAmount = "negative amount"
)

// chargeDefect returns why a charge cannot take part in a computation, or "".
func chargeDefect(c entity.Charge) string {
	if c.Date.IsZero() {
		return reasonMissingDate
	}
	if c.Amount.IsNegative() {
		return reasonNegativeAmount
	}
	return ""
}

// paymentDefect returns why a payment cannot take part in a computation, or "".
func paymentDefect(p entity.Payment) string {
	if p.PaymentDate.IsZero() {
		return reasonMissingDate
	}
	if p.Amount.IsNegative() {
		return reasonNegativeAmount
	}
	return ""
}

func chargeWarning(c entity.Charge, reason string) entity.RecordWarning {
	return entity.RecordWarning{
		Kind:       entity.LedgerRowCharge,
		SourceID:   c.ID,
		ResidentID: c.ResidentID,
		Reason:     reason,
	}
}

func paymentWarning(p entity.Payment, reason string) entity.RecordWarning {
	return entity.RecordWarning{
		Kind:       entity.LedgerRowPayment,
		SourceID:   p.ID,
		ResidentID: p.ResidentID,
		Reason:     reason,
	}
}

// labelOr returns the trimmed text, or fallback when it is blank.
func labelOr(text, fallback string) string {
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return trimmed
	}
	return fallback
}
