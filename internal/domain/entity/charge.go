// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge represents an amount a resident owes ("cargo"), posted on a given date.
type Charge struct {
	ID          string
	ResidentID  string
	CommunityID string
	Date        time.Time // Zero when the upstream record had no usable date
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// NewCharge creates a new Charge entity with a generated ID.
func NewCharge(residentID, communityID string, date time.Time, description string, amount decimal.Decimal) *Charge {
	return &Charge{
		ID:          uuid.New().String(),
		ResidentID:  residentID,
		CommunityID: communityID,
		Date:        date,
		Description: description,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}
}
