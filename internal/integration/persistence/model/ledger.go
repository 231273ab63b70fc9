// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/domain/entity"
)

// ChargeModel represents the charges table in the database.
type ChargeModel struct {
	ID          string          `gorm:"type:varchar(100);primaryKey"`
	ResidentID  string          `gorm:"type:varchar(64);not null;index"`
	CommunityID string          `gorm:"type:varchar(64);not null;index"`
	Date        *time.Time      `gorm:"type:timestamp"` // NULL on legacy rows
	Description string          `gorm:"type:varchar(255)"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ChargeModel.
func (ChargeModel) TableName() string {
	return "charges"
}

// ToEntity converts a ChargeModel to a domain Charge entity.
// A NULL date becomes the zero time, which the ledger reports as malformed.
func (m *ChargeModel) ToEntity() entity.Charge {
	var date time.Time
	if m.Date != nil {
		date = m.Date.UTC()
	}

	return entity.Charge{
		ID:          m.ID,
		ResidentID:  m.ResidentID,
		CommunityID: m.CommunityID,
		Date:        date,
		Description: m.Description,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
	}
}

// ChargeFromEntity creates a ChargeModel from a domain Charge entity.
func ChargeFromEntity(c *entity.Charge) *ChargeModel {
	var date *time.Time
	if !c.Date.IsZero() {
		d := c.Date.UTC()
		date = &d
	}

	return &ChargeModel{
		ID:          c.ID,
		ResidentID:  c.ResidentID,
		CommunityID: c.CommunityID,
		Date:        date,
		Description: c.Description,
		Amount:      c.Amount,
		CreatedAt:   c.CreatedAt,
	}
}

// PaymentModel represents the payments table in the database.
type PaymentModel struct {
	ID          string          `gorm:"type:varchar(100);primaryKey"`
	ResidentID  string          `gorm:"type:varchar(64);not null;index"`
	CommunityID string          `gorm:"type:varchar(64);not null;index"`
	PaymentDate *time.Time      `gorm:"type:timestamp"` // NULL on legacy rows
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Concept     string          `gorm:"type:varchar(255)"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDIENTE';index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the PaymentModel.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToEntity converts a PaymentModel to a domain Payment entity.
func (m *PaymentModel) ToEntity() entity.Payment {
	var paymentDate time.Time
	if m.PaymentDate != nil {
		paymentDate = m.PaymentDate.UTC()
	}

	return entity.Payment{
		ID:          m.ID,
		ResidentID:  m.ResidentID,
		CommunityID: m.CommunityID,
		PaymentDate: paymentDate,
		Amount:      m.Amount,
		Concept:     m.Concept,
		Status:      entity.PaymentStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// PaymentFromEntity creates a PaymentModel from a domain Payment entity.
func PaymentFromEntity(p *entity.Payment) *PaymentModel {
	var paymentDate *time.Time
	if !p.PaymentDate.IsZero() {
		d := p.PaymentDate.UTC()
		paymentDate = &d
	}

	return &PaymentModel{
		ID:          p.ID,
		ResidentID:  p.ResidentID,
		CommunityID: p.CommunityID,
		PaymentDate: paymentDate,
		Amount:      p.Amount,
		Concept:     p.Concept,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
