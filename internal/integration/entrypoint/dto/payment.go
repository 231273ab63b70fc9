package dto

import (
	"encoding/json"
	"time"

	"github.com/condo-portal/ledger/internal/application/usecase/payment"
	"github.com/condo-portal/ledger/internal/domain/entity"
)

// RecordPaymentRequest represents the request body for registering a payment.
type RecordPaymentRequest struct {
	PaymentDate string      `json:"payment_date" binding:"required"`
	Amount      json.Number `json:"amount" binding:"required"`
	Concept     string      `json:"concept" binding:"max=255"`
	Apply       bool        `json:"apply"`
}

// ChangePaymentStatusRequest represents the request body for settling a payment.
type ChangePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID          string    `json:"id"`
	ResidentID  string    `json:"resident_id"`
	CommunityID string    `json:"community_id"`
	PaymentDate string    `json:"payment_date"`
	Amount      string    `json:"amount"`
	Concept     string    `json:"concept"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaymentStatusResponse represents the result of a status change.
type PaymentStatusResponse struct {
	Payment        PaymentResponse `json:"payment"`
	PreviousStatus string          `json:"previous_status"`
}

// ToPaymentResponse converts a Payment entity to a PaymentResponse DTO.
func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		ResidentID:  p.ResidentID,
		CommunityID: p.CommunityID,
		PaymentDate: Date(p.PaymentDate),
		Amount:      Money(p.Amount),
		Concept:     p.Concept,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToPaymentStatusResponse converts a status change output to a DTO.
func ToPaymentStatusResponse(output *payment.ChangePaymentStatusOutput) PaymentStatusResponse {
	return PaymentStatusResponse{
		Payment:        ToPaymentResponse(output.Payment),
		PreviousStatus: string(output.PreviousStatus),
	}
}
