package email

import (
	"context"
	"fmt"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// Service queues resident notices for the worker to deliver.
type Service struct {
	queue     adapter.EmailQueueRepository
	portalURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, portalURL string) *Service {
	return &Service{
		queue:     queue,
		portalURL: portalURL,
	}
}

// QueueDelinquencyNotice queues a delinquency notice for a resident.
func (s *Service) QueueDelinquencyNotice(ctx context.Context, input adapter.DelinquencyNoticeInput) error {
	subject := fmt.Sprintf("Aviso de adeudo - Unidad %s", input.Unit)

	templateData := map[string]interface{}{
		"resident_name": input.ResidentName,
		"unit":          input.Unit,
		"balance":       input.Balance,
		"threshold":     input.Threshold,
		"as_of":         input.AsOf,
		"statement_url": fmt.Sprintf("%s/residents/%s/ledger", s.portalURL, input.ResidentID),
	}

	job := entity.NewEmailJob(
		entity.TemplateDelinquencyNotice,
		input.CommunityID,
		input.ResidentID,
		input.ResidentEmail,
		input.ResidentName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNoticeQueueFailed,
			"failed to queue delinquency notice",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.NoticeService.
var _ adapter.NoticeService = (*Service)(nil)
