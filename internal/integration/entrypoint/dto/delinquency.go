package dto

import (
	"github.com/condo-portal/ledger/internal/application/usecase/delinquency"
)

// DelinquentResponse represents a resident whose balance reached the threshold.
type DelinquentResponse struct {
	ResidentID    string `json:"resident_id"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	Email         string `json:"email,omitempty"`
	TotalCharges  string `json:"total_charges"`
	TotalPayments string `json:"total_payments"`
	Balance       string `json:"balance"`
}

// DelinquencyReportResponse represents the delinquents of a community.
type DelinquencyReportResponse struct {
	CommunityID   string                  `json:"community_id"`
	AsOf          string                  `json:"as_of"`
	MonthlyAmount string                  `json:"monthly_amount"`
	Threshold     string                  `json:"threshold"`
	Delinquents   []DelinquentResponse    `json:"delinquents"`
	Warnings      []RecordWarningResponse `json:"warnings"`
	Cached        bool                    `json:"cached"`
}

// NotifyDelinquentsResponse summarizes a notification run.
type NotifyDelinquentsResponse struct {
	Delinquents int      `json:"delinquents"`
	Queued      int      `json:"queued"`
	Skipped     []string `json:"skipped"`
	Failed      []string `json:"failed"`
}

// ToDelinquencyReportResponse converts a classification output to a DTO.
func ToDelinquencyReportResponse(output *delinquency.ListDelinquentsOutput) DelinquencyReportResponse {
	report := output.Report
	delinquents := make([]DelinquentResponse, len(report.Results))
	for i, r := range report.Results {
		resident := output.Residents[r.ResidentID]
		delinquents[i] = DelinquentResponse{
			ResidentID:    r.ResidentID,
			Name:          resident.Name,
			Unit:          resident.Unit,
			Email:         resident.Email,
			TotalCharges:  Money(r.TotalCharges),
			TotalPayments: Money(r.TotalPayments),
			Balance:       Money(r.Balance),
		}
	}

	return DelinquencyReportResponse{
		CommunityID:   output.Community.ID,
		AsOf:          Date(report.AsOf),
		MonthlyAmount: Money(report.MonthlyAmount),
		Threshold:     Money(report.Threshold),
		Delinquents:   delinquents,
		Warnings:      ToWarningResponses(report.Warnings),
		Cached:        output.Cached,
	}
}

// ToNotifyDelinquentsResponse converts a notification output to a DTO.
func ToNotifyDelinquentsResponse(output *delinquency.NotifyDelinquentsOutput) NotifyDelinquentsResponse {
	response := NotifyDelinquentsResponse{
		Delinquents: output.Delinquents,
		Queued:      output.Queued,
		Skipped:     output.Skipped,
		Failed:      output.Failed,
	}
	if response.Skipped == nil {
		response.Skipped = []string{}
	}
	if response.Failed == nil {
		response.Failed = []string{}
	}
	return response
}
