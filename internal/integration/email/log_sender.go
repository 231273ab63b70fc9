package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// LogSender logs notices instead of delivering them. It stands in for Resend
// when no API key is configured and records what it was given for tests.
type LogSender struct {
	mu        sync.Mutex
	sent      []adapter.SendEmailInput
	failWith  error
	permanent bool
}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send implements adapter.EmailSender.
func (s *LogSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		code := domainerror.ErrCodeTemporarySendFailure
		if s.permanent {
			code = domainerror.ErrCodePermanentSendFailure
		}
		return nil, domainerror.NewNotificationError(code, "notice not sent", s.failWith)
	}

	s.sent = append(s.sent, input)
	slog.Info("Notice not sent, no email provider configured",
		"to", input.To,
		"subject", input.Subject,
		"community", input.Tags["community"],
	)
	return &adapter.SendEmailResult{MessageID: fmt.Sprintf("log-%d", len(s.sent))}, nil
}

// SetFailure makes every following Send fail with err.
func (s *LogSender) SetFailure(err error, permanent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
	s.permanent = permanent
}

// Sent returns a copy of the recorded messages.
func (s *LogSender) Sent() []adapter.SendEmailInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adapter.SendEmailInput(nil), s.sent...)
}

var _ adapter.EmailSender = (*LogSender)(nil)
