// Package service contains the pure reconciliation logic of the resident ledger.
package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/domain/entity"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// residentTotals accumulates the sums of a single resident.
type residentTotals struct {
	charges  decimal.Decimal
	payments decimal.Decimal
}

// ClassifyDelinquents computes every resident's balance and returns those whose
// balance is positive and at or above the community threshold, highest balance
// first. A resident who owes nothing is never delinquent.
//
// The threshold is OverdueMonths times the MONTO_MANT configuration entry, or
// times DefaultMonthlyMaintenance when that entry is missing or invalid.
// Charges and payments of residents that are not in the list are ignored.
func ClassifyDelinquents(
	residents []entity.Resident,
	charges []entity.Charge,
	payments []entity.Payment,
	entries []entity.ConfigEntry,
	asOf time.Time,
) entity.DelinquencyReport {
	monthly, _ := MonthlyMaintenance(entries)
	threshold := valueobject.DelinquencyThreshold(monthly)

	totals := make(map[string]*residentTotals, len(residents))
	order := make([]string, 0, len(residents))
	for _, r := range residents {
		if _, seen := totals[r.ID]; seen {
			continue
		}
		totals[r.ID] = &residentTotals{charges: decimal.Zero, payments: decimal.Zero}
		order = append(order, r.ID)
	}

	var warnings []entity.RecordWarning

	for _, c := range charges {
		t, ok := totals[c.ResidentID]
		if !ok {
			continue
		}
		if reason := chargeDefect(c); reason != "" {
			warnings = append(warnings, chargeWarning(c, reason))
			continue
		}
		if valueobject.IsMatured(c.Date, asOf) {
			t.charges = t.charges.Add(c.Amount)
		}
	}

	for _, p := range payments {
		t, ok := totals[p.ResidentID]
		if !ok {
			continue
		}
		if reason := paymentDefect(p); reason != "" {
			warnings = append(warnings, paymentWarning(p, reason))
			continue
		}
		if p.IsApplied() {
			t.payments = t.payments.Add(p.Amount)
		}
	}

	results := make([]entity.DelinquencyResult, 0)
	for _, id := range order {
		t := totals[id]
		balance := t.charges.Sub(t.payments)
		// A zero threshold still never flags a resident who owes nothing.
		if balance.IsPositive() && balance.GreaterThanOrEqual(threshold) {
			results = append(results, entity.DelinquencyResult{
				ResidentID:    id,
				TotalCharges:  t.charges,
				TotalPayments: t.payments,
				Balance:       balance,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if cmp := results[i].Balance.Cmp(results[j].Balance); cmp != 0 {
			return cmp > 0
		}
		return results[i].ResidentID < results[j].ResidentID
	})

	return entity.DelinquencyReport{
		AsOf:          valueobject.DateOnly(asOf),
		MonthlyAmount: monthly,
		Threshold:     threshold,
		Results:       results,
		Warnings:      warnings,
	}
}

// MonthlyMaintenance resolves a community's monthly maintenance amount from its
// configuration entries, reporting whether the configured value was used.
func MonthlyMaintenance(entries []entity.ConfigEntry) (decimal.Decimal, bool) {
	return valueobject.ResolveMonthlyMaintenance(toConfigValues(entries))
}

func toConfigValues(entries []entity.ConfigEntry) []valueobject.ConfigValue {
	values := make([]valueobject.ConfigValue, len(entries))
	for i, e := range entries {
		values[i] = valueobject.ConfigValue{Key: e.Key, Value: e.Value}
	}
	return values
}
