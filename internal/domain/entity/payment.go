// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// PaymentStatus represents the lifecycle state of a payment ("pago").
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDIENTE"
	PaymentStatusApplied   PaymentStatus = "APLICADO"
	PaymentStatusRejected  PaymentStatus = "RECHAZADO"
	PaymentStatusCancelled PaymentStatus = "CANCELADO"
)

// IsValid reports whether the status belongs to the closed set of payment states.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApplied, PaymentStatusRejected, PaymentStatusCancelled:
		return true
	}
	return false
}

// Payment represents a payment a resident made toward their balance.
type Payment struct {
	ID          string
	ResidentID  string
	CommunityID string
	PaymentDate time.Time
	Amount      decimal.Decimal
	Concept     string
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPayment creates a new Payment awaiting confirmation.
func NewPayment(residentID, communityID string, paymentDate time.Time, amount decimal.Decimal, concept string) *Payment {
	now := time.Now().UTC()

	return &Payment{
		ID:          uuid.New().String(),
		ResidentID:  residentID,
		CommunityID: communityID,
		PaymentDate: paymentDate,
		Amount:      amount,
		Concept:     concept,
		Status:      PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsApplied reports whether the payment counts toward balance reduction.
func (p *Payment) IsApplied() bool {
	return p.Status == PaymentStatusApplied
}

// TransitionTo moves the payment to the target status.
// Only pending payments can change state.
func (p *Payment) TransitionTo(target PaymentStatus) error {
	if !target.IsValid() || target == PaymentStatusPending {
		return domainerror.ErrInvalidPaymentStatus
	}
	if p.Status != PaymentStatusPending {
		return domainerror.ErrPaymentNotPending
	}

	p.Status = target
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Apply confirms a pending payment so it reduces the resident's balance.
func (p *Payment) Apply() error {
	return p.TransitionTo(PaymentStatusApplied)
}

// Reject marks a pending payment as rejected.
func (p *Payment) Reject() error {
	return p.TransitionTo(PaymentStatusRejected)
}

// Cancel marks a pending payment as cancelled.
func (p *Payment) Cancel() error {
	return p.TransitionTo(PaymentStatusCancelled)
}
