// Package email delivers queued delinquency notices through Resend.
package email

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// ResendOption customizes a ResendClient.
type ResendOption func(*ResendClient) error

// WithBaseURL points the client at another Resend-compatible endpoint.
func WithBaseURL(rawURL string) ResendOption {
	return func(c *ResendClient) error {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		baseURL, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid resend base url: %w", err)
		}
		c.client.BaseURL = baseURL
		return nil
	}
}

// WithReplyTo sets the address residents reply to, usually the administration office.
func WithReplyTo(address string) ResendOption {
	return func(c *ResendClient) error {
		c.replyTo = address
		return nil
	}
}

// ResendClient implements adapter.EmailSender on the Resend API.
type ResendClient struct {
	client  *resend.Client
	from    string
	replyTo string
}

// NewResendClient creates a sender for the administration's from address.
func NewResendClient(apiKey, fromName, fromEmail string, opts ...ResendOption) (*ResendClient, error) {
	c := &ResendClient{
		client: resend.NewClient(apiKey),
		from:   mailbox(fromName, fromEmail),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Send delivers one message. Provider errors are returned as NotificationError,
// classified as permanent or temporary for the worker's retry policy.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	request := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{mailbox(input.Name, input.To)},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
		Tags:    resendTags(input.Tags),
	}
	if c.replyTo != "" {
		request.ReplyTo = c.replyTo
	}

	sent, err := c.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		code := domainerror.ErrCodeTemporarySendFailure
		if isPermanentError(err) {
			code = domainerror.ErrCodePermanentSendFailure
		}
		return nil, domainerror.NewNotificationError(code, "resend rejected the notice", err)
	}

	return &adapter.SendEmailResult{MessageID: sent.Id}, nil
}

func mailbox(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// resendTags converts tags in key order so requests are reproducible.
func resendTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]resend.Tag, 0, len(names))
	for _, name := range names {
		out = append(out, resend.Tag{Name: name, Value: tags[name]})
	}
	return out
}

// permanentMarkers identify requests Resend will never accept as sent:
// bad credentials (401, 403) and invalid payloads (400, 422).
var permanentMarkers = []string{
	"400", "401", "403", "422",
	"bad request", "unauthorized", "forbidden", "validation", "invalid",
}

// isPermanentError reports whether retrying err is pointless. Rate limits (429)
// and server errors are temporary.
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

var _ adapter.EmailSender = (*ResendClient)(nil)
