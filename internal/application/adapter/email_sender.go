// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/condo-portal/ledger/internal/domain/entity"
)

// SendEmailInput represents one rendered email ready to be delivered.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
	// Tags label the message at the provider, e.g. by community.
	Tags map[string]string
}

// SendEmailResult represents the provider's acknowledgement.
type SendEmailResult struct {
	MessageID string
}

// EmailSender delivers emails through an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// DelinquencyNoticeInput carries the data of a delinquency notice.
type DelinquencyNoticeInput struct {
	CommunityID   string
	ResidentID    string
	ResidentName  string
	ResidentEmail string
	Unit          string
	Balance       string
	Threshold     string
	AsOf          string
}

// NoticeService queues resident notices for asynchronous delivery.
type NoticeService interface {
	QueueDelinquencyNotice(ctx context.Context, input DelinquencyNoticeInput) error
}

// EmailQueueRepository persists queued email jobs.
type EmailQueueRepository interface {
	// Create adds a job to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// GetPendingJobs returns jobs due for delivery, oldest schedule first.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error)

	// Update saves a job's state.
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetByID retrieves a job.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error)

	// GetByResident lists the jobs queued for a resident, newest first.
	GetByResident(ctx context.Context, residentID string) ([]*entity.EmailJob, error)
}
