// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Money renders an amount with two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Date renders a calendar date as YYYY-MM-DD.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(valueobject.DateLayout)
}
