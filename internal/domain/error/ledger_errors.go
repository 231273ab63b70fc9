// Package error defines domain-specific errors for the community ledger service.
package error

import "errors"

// Ledger domain errors.
var (
	// ErrResidentNotFound is returned when a resident does not exist.
	ErrResidentNotFound = errors.New("resident not found")

	// ErrCommunityNotFound is returned when a community does not exist.
	ErrCommunityNotFound = errors.New("community not found")

	// ErrPaymentNotFound is returned when a payment does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidPaymentStatus is returned for a status outside the payment lifecycle.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	// ErrPaymentNotPending is returned when a settled payment is asked to change state.
	ErrPaymentNotPending = errors.New("payment is not pending")

	// ErrInvalidAmount is returned when an amount is missing, unparsable or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrInvalidMonth is returned when a billing month is not in YYYY-MM form.
	ErrInvalidMonth = errors.New("invalid month format, expected YYYY-MM")

	// ErrEmptyConfigKey is returned when a configuration key is blank.
	ErrEmptyConfigKey = errors.New("configuration key is required")

	// ErrUnsupportedFormat is returned when no exporter renders the requested format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount        LedgerErrorCode = "LDG-010001"
	ErrCodeInvalidDate          LedgerErrorCode = "LDG-010002"
	ErrCodeInvalidMonth         LedgerErrorCode = "LDG-010003"
	ErrCodeInvalidPaymentStatus LedgerErrorCode = "LDG-010004"
	ErrCodeEmptyConfigKey       LedgerErrorCode = "LDG-010005"
	ErrCodeMissingFields        LedgerErrorCode = "LDG-010006"
	ErrCodeUnsupportedFormat    LedgerErrorCode = "LDG-010007"

	// Lookup errors (02XXXX)
	ErrCodeResidentNotFound  LedgerErrorCode = "LDG-020001"
	ErrCodeCommunityNotFound LedgerErrorCode = "LDG-020002"
	ErrCodePaymentNotFound   LedgerErrorCode = "LDG-020003"

	// State errors (03XXXX)
	ErrCodePaymentNotPending LedgerErrorCode = "LDG-030001"

	// Access errors (04XXXX)
	ErrCodeCommunityForbidden LedgerErrorCode = "LDG-040001"

	// Internal errors (99XXXX)
	ErrCodeLedgerInternalError LedgerErrorCode = "LDG-990001"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
