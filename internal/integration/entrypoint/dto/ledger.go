package dto

import (
	"github.com/condo-portal/ledger/internal/application/usecase/ledger"
	"github.com/condo-portal/ledger/internal/domain/entity"
)

// LedgerRowResponse represents one line of a resident ledger.
type LedgerRowResponse struct {
	Date           string  `json:"date"`
	Kind           string  `json:"kind"`
	Description    string  `json:"description"`
	ChargeAmount   *string `json:"charge_amount,omitempty"`
	PaymentAmount  *string `json:"payment_amount,omitempty"`
	RunningBalance string  `json:"running_balance"`
	SourceID       string  `json:"source_id"`
	IsApplied      *bool   `json:"is_applied,omitempty"`
}

// RecordWarningResponse describes a record excluded from a computation.
type RecordWarningResponse struct {
	Kind       string `json:"kind"`
	SourceID   string `json:"source_id"`
	ResidentID string `json:"resident_id"`
	Reason     string `json:"reason"`
}

// LedgerResponse represents a resident's account history.
type LedgerResponse struct {
	ResidentID     string                  `json:"resident_id"`
	CommunityID    string                  `json:"community_id"`
	ResidentName   string                  `json:"resident_name"`
	Unit           string                  `json:"unit"`
	AsOf           string                  `json:"as_of"`
	CurrentBalance string                  `json:"current_balance"`
	Rows           []LedgerRowResponse     `json:"rows"`
	Warnings       []RecordWarningResponse `json:"warnings"`
}

// ToLedgerResponse converts a ledger use case output to a LedgerResponse DTO.
func ToLedgerResponse(output *ledger.GetResidentLedgerOutput) LedgerResponse {
	rows := make([]LedgerRowResponse, len(output.Ledger.Rows))
	for i, row := range output.Ledger.Rows {
		rows[i] = toLedgerRowResponse(row)
	}

	return LedgerResponse{
		ResidentID:     output.Resident.ID,
		CommunityID:    output.Resident.CommunityID,
		ResidentName:   output.Resident.Name,
		Unit:           output.Resident.Unit,
		AsOf:           Date(output.AsOf),
		CurrentBalance: Money(output.CurrentBalance),
		Rows:           rows,
		Warnings:       ToWarningResponses(output.Ledger.Warnings),
	}
}

func toLedgerRowResponse(row entity.LedgerRow) LedgerRowResponse {
	response := LedgerRowResponse{
		Date:           Date(row.Date),
		Kind:           string(row.Kind),
		Description:    row.Description,
		RunningBalance: Money(row.RunningBalanceAfter),
		SourceID:       row.SourceID,
	}

	if row.Kind == entity.LedgerRowPayment {
		amount := Money(row.PaymentAmount)
		applied := row.IsApplied
		response.PaymentAmount = &amount
		response.IsApplied = &applied
	} else {
		amount := Money(row.ChargeAmount)
		response.ChargeAmount = &amount
	}

	return response
}

// ToWarningResponses converts record warnings to DTOs.
func ToWarningResponses(warnings []entity.RecordWarning) []RecordWarningResponse {
	responses := make([]RecordWarningResponse, len(warnings))
	for i, w := range warnings {
		responses[i] = RecordWarningResponse{
			Kind:       string(w.Kind),
			SourceID:   w.SourceID,
			ResidentID: w.ResidentID,
			Reason:     w.Reason,
		}
	}
	return responses
}
