// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRowKind identifies the source record of a ledger row.
type LedgerRowKind string

const (
	LedgerRowCharge  LedgerRowKind = "charge"
	LedgerRowPayment LedgerRowKind = "payment"
)

// LedgerRow is one balance-annotated line of a resident's history.
// Exactly one of ChargeAmount and PaymentAmount is set.
type LedgerRow struct {
	Date                time.Time
	Kind                LedgerRowKind
	Description         string
	ChargeAmount        decimal.Decimal
	PaymentAmount       decimal.Decimal
	RunningBalanceAfter decimal.Decimal
	SourceID            string
	IsApplied           bool // Payment rows only
}

// RecordWarning describes a charge or payment excluded from a computation.
type RecordWarning struct {
	Kind       LedgerRowKind
	SourceID   string
	ResidentID string
	Reason     string
}

// LedgerResult is the output of building a resident ledger.
type LedgerResult struct {
	Rows     []LedgerRow // Most recent first
	Warnings []RecordWarning
}

// CurrentBalance returns the running balance after the most recent row.
func (r LedgerResult) CurrentBalance() decimal.Decimal {
	if len(r.Rows) == 0 {
		return decimal.Zero
	}
	return r.Rows[0].RunningBalanceAfter
}

// DelinquencyResult holds the balance breakdown of a delinquent resident ("moroso").
type DelinquencyResult struct {
	ResidentID    string
	TotalCharges  decimal.Decimal // Matured charges
	TotalPayments decimal.Decimal // Applied payments
	Balance       decimal.Decimal
}

// DelinquencyReport is the output of classifying a community's residents.
type DelinquencyReport struct {
	AsOf          time.Time
	MonthlyAmount decimal.Decimal
	Threshold     decimal.Decimal
	Results       []DelinquencyResult // Highest balance first
	Warnings      []RecordWarning
}
