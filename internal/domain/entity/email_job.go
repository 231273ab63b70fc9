// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus represents the delivery state of a queued email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplate identifies the template a queued email is rendered with.
type EmailTemplate string

const (
	TemplateDelinquencyNotice EmailTemplate = "delinquency_notice"
)

// retryDelays is indexed by the number of failed attempts so far.
var retryDelays = []time.Duration{0, time.Minute, 5 * time.Minute}

// EmailJob is an outbound email waiting in the notification queue.
type EmailJob struct {
	ID                uuid.UUID
	CommunityID       string
	ResidentID        string
	Template          EmailTemplate
	RecipientEmail    string
	RecipientName     string
	Subject           string
	TemplateData      map[string]interface{}
	Status            EmailStatus
	Attempts          int
	MaxAttempts       int
	LastError         string
	ProviderMessageID string
	CreatedAt         time.Time
	ScheduledAt       time.Time
	ProcessedAt       *time.Time
}

// NewEmailJob creates a pending job scheduled for immediate delivery.
func NewEmailJob(template EmailTemplate, communityID, residentID, recipientEmail, recipientName, subject string, data map[string]interface{}) *EmailJob {
	now := time.Now().UTC()
	return &EmailJob{
		ID:             uuid.New(),
		CommunityID:    communityID,
		ResidentID:     residentID,
		Template:       template,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    len(retryDelays),
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing marks the job as claimed by a worker.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent records a successful delivery.
func (e *EmailJob) MarkSent(providerMessageID string) {
	now := time.Now().UTC()
	e.Status = EmailStatusSent
	e.ProviderMessageID = providerMessageID
	e.ProcessedAt = &now
}

// MarkFailed records a failed attempt. Permanent failures and exhausted jobs
// end as failed; anything else goes back to pending with a delay.
func (e *EmailJob) MarkFailed(err error, permanent bool) {
	e.Attempts++
	e.LastError = err.Error()

	now := time.Now().UTC()
	if permanent || e.Attempts >= e.MaxAttempts {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return
	}

	delay := retryDelays[len(retryDelays)-1]
	if e.Attempts < len(retryDelays) {
		delay = retryDelays[e.Attempts]
	}
	e.Status = EmailStatusPending
	e.ScheduledAt = now.Add(delay)
}

// StringData returns a template value as a string, or "" when absent.
func (e *EmailJob) StringData(key string) string {
	if v, ok := e.TemplateData[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
