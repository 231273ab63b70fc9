package dto

import (
	"encoding/json"
	"time"

	"github.com/condo-portal/ledger/internal/application/usecase/charge"
	"github.com/condo-portal/ledger/internal/domain/entity"
)

// RecordChargeRequest represents the request body for posting a charge.
type RecordChargeRequest struct {
	Date        string      `json:"date" binding:"required"`
	Description string      `json:"description" binding:"max=255"`
	Amount      json.Number `json:"amount" binding:"required"`
}

// GenerateMaintenanceChargesRequest represents the request body for monthly billing.
type GenerateMaintenanceChargesRequest struct {
	Month string `json:"month" binding:"required"`
}

// ChargeResponse represents a charge in API responses.
type ChargeResponse struct {
	ID          string    `json:"id"`
	ResidentID  string    `json:"resident_id"`
	CommunityID string    `json:"community_id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// MaintenanceChargesResponse summarizes a billing run.
type MaintenanceChargesResponse struct {
	Month   string `json:"month"`
	Amount  string `json:"amount"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// ToChargeResponse converts a Charge entity to a ChargeResponse DTO.
func ToChargeResponse(c *entity.Charge) ChargeResponse {
	return ChargeResponse{
		ID:          c.ID,
		ResidentID:  c.ResidentID,
		CommunityID: c.CommunityID,
		Date:        Date(c.Date),
		Description: c.Description,
		Amount:      Money(c.Amount),
		CreatedAt:   c.CreatedAt,
	}
}

// ToMaintenanceChargesResponse converts a billing output to a DTO.
func ToMaintenanceChargesResponse(output *charge.GenerateMaintenanceChargesOutput) MaintenanceChargesResponse {
	return MaintenanceChargesResponse{
		Month:   output.Month,
		Amount:  Money(output.Amount),
		Created: output.Created,
		Skipped: output.Skipped,
	}
}
