// Package valueobject contains domain value objects for the community ledger.
package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaintenanceConfigKey is the community configuration key holding the monthly maintenance amount.
	MaintenanceConfigKey = "MONTO_MANT"

	// OverdueMonths is how many months of unpaid maintenance make a resident delinquent.
	OverdueMonths = 2
)

// DefaultMonthlyMaintenance is used when a community has no usable MONTO_MANT entry.
var DefaultMonthlyMaintenance = decimal.NewFromInt(800)

// ConfigValue is a raw keyed configuration value.
type ConfigValue struct {
	Key   string
	Value string
}

// ParseAmount parses a decimal amount accepting either '.' or ',' as the decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	return decimal.NewFromString(normalized)
}

// ResolveMonthlyMaintenance finds the MONTO_MANT entry and returns its amount.
// It falls back to DefaultMonthlyMaintenance when the entry is missing,
// unparsable or negative. The second return value reports whether the
// configured value was used.
func ResolveMonthlyMaintenance(values []ConfigValue) (decimal.Decimal, bool) {
	for _, v := range values {
		if v.Key != MaintenanceConfigKey {
			continue
		}
		amount, err := ParseAmount(v.Value)
		if err != nil || amount.IsNegative() {
			return DefaultMonthlyMaintenance, false
		}
		return amount, true
	}
	return DefaultMonthlyMaintenance, false
}

// DelinquencyThreshold returns the balance at or above which a resident is delinquent.
func DelinquencyThreshold(monthlyAmount decimal.Decimal) decimal.Decimal {
	return monthlyAmount.Mul(decimal.NewFromInt(OverdueMonths))
}
