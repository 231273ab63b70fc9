// Package error defines domain-specific errors for the community ledger service.
package error

import "errors"

// Notification errors for queued resident emails.
var (
	// ErrNoticeQueueFailed is returned when a notice could not be stored in the queue.
	ErrNoticeQueueFailed = errors.New("failed to queue notice")

	// ErrUnknownTemplate is returned when a queued job references no known template.
	ErrUnknownTemplate = errors.New("unknown email template")

	// ErrEmailJobNotFound is returned when an email job is not found.
	ErrEmailJobNotFound = errors.New("email job not found")
)

// NotificationErrorCode defines error codes for outbound email errors.
// Format: NTF-XXYYYY where XX is category and YYYY is specific error.
type NotificationErrorCode string

const (
	ErrCodeNoticeQueueFailed NotificationErrorCode = "NTF-010001"

	ErrCodePermanentSendFailure NotificationErrorCode = "NTF-020001"
	ErrCodeTemporarySendFailure NotificationErrorCode = "NTF-020002"

	ErrCodeUnknownTemplate NotificationErrorCode = "NTF-030001"
)

// NotificationError wraps a delivery or queueing failure with its code.
type NotificationError struct {
	Code    NotificationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether retrying the delivery cannot succeed.
func (e *NotificationError) IsPermanent() bool {
	return e.Code == ErrCodePermanentSendFailure || e.Code == ErrCodeUnknownTemplate
}

// NewNotificationError creates a new NotificationError.
func NewNotificationError(code NotificationErrorCode, message string, err error) *NotificationError {
	return &NotificationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
