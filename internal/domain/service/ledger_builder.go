// Package service contains the pure reconciliation logic of the resident ledger.
package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/domain/entity"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// BuildLedger merges one resident's charges and payments into a single history
// annotated with the running balance, most recent row first.
//
// Charges that have not matured as of asOf are left out. Every payment appears,
// but only applied payments reduce the balance. The balance is accumulated in
// ascending (date, id) order; the returned rows are in descending order of the
// same key. Records with a missing date or a negative amount are excluded and
// reported in the result warnings.
func BuildLedger(charges []entity.Charge, payments []entity.Payment, asOf time.Time) entity.LedgerResult {
	rows := make([]entity.LedgerRow, 0, len(charges)+len(payments))
	var warnings []entity.RecordWarning

	for _, c := range charges {
		if reason := chargeDefect(c); reason != "" {
			warnings = append(warnings, chargeWarning(c, reason))
			continue
		}
		if !valueobject.IsMatured(c.Date, asOf) {
			continue
		}
		rows = append(rows, entity.LedgerRow{
			Date:          c.Date,
			Kind:          entity.LedgerRowCharge,
			Description:   labelOr(c.Description, DefaultChargeLabel),
			ChargeAmount:  c.Amount,
			PaymentAmount: decimal.Zero,
			SourceID:      c.ID,
		})
	}

	for _, p := range payments {
		if reason := paymentDefect(p); reason != "" {
			warnings = append(warnings, paymentWarning(p, reason))
			continue
		}
		rows = append(rows, entity.LedgerRow{
			Date:          p.PaymentDate,
			Kind:          entity.LedgerRowPayment,
			Description:   labelOr(p.Concept, DefaultPaymentLabel),
			ChargeAmount:  decimal.Zero,
			PaymentAmount: p.Amount,
			SourceID:      p.ID,
			IsApplied:     p.IsApplied(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rowBefore(rows[i], rows[j])
	})

	balance := decimal.Zero
	for i := range rows {
		switch rows[i].Kind {
		case entity.LedgerRowCharge:
			balance = balance.Add(rows[i].ChargeAmount)
		case entity.LedgerRowPayment:
			if rows[i].IsApplied {
				balance = balance.Sub(rows[i].PaymentAmount)
			}
		}
		rows[i].RunningBalanceAfter = balance
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rowBefore(rows[j], rows[i])
	})

	return entity.LedgerResult{
		Rows:     rows,
		Warnings: warnings,
	}
}

// rowBefore orders rows by calendar date, then source id, then charges ahead
// of payments. The time of day never takes part.
func rowBefore(a, b entity.LedgerRow) bool {
	if da, db := valueobject.DateOnly(a.Date), valueobject.DateOnly(b.Date); !da.Equal(db) {
		return da.Before(db)
	}
	if a.SourceID != b.SourceID {
		return a.SourceID < b.SourceID
	}
	return a.Kind == entity.LedgerRowCharge && b.Kind == entity.LedgerRowPayment
}
