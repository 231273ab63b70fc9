package delinquency

import (
	"context"
	"log/slog"
	"strings"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// NotifyDelinquentsOutput summarizes a notification run.
type NotifyDelinquentsOutput struct {
	Delinquents int
	Queued      int
	Skipped     []string // Residents without an email address
	Failed      []string
}

// NotifyDelinquentsUseCase queues a notice for every delinquent resident.
type NotifyDelinquentsUseCase struct {
	listDelinquents *ListDelinquentsUseCase
	notices         adapter.NoticeService
}

// NewNotifyDelinquentsUseCase creates a new NotifyDelinquentsUseCase instance.
func NewNotifyDelinquentsUseCase(listDelinquents *ListDelinquentsUseCase, notices adapter.NoticeService) *NotifyDelinquentsUseCase {
	return &NotifyDelinquentsUseCase{
		listDelinquents: listDelinquents,
		notices:         notices,
	}
}

// Execute classifies the community on fresh data and queues the notices.
func (uc *NotifyDelinquentsUseCase) Execute(ctx context.Context, input ListDelinquentsInput) (*NotifyDelinquentsOutput, error) {
	input.SkipCache = true
	out, err := uc.listDelinquents.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &NotifyDelinquentsOutput{Delinquents: len(out.Report.Results)}
	for _, d := range out.Report.Results {
		resident, ok := out.Residents[d.ResidentID]
		if !ok || strings.TrimSpace(resident.Email) == "" {
			result.Skipped = append(result.Skipped, d.ResidentID)
			continue
		}

		err := uc.notices.QueueDelinquencyNotice(ctx, adapter.DelinquencyNoticeInput{
			CommunityID:   out.Community.ID,
			ResidentID:    resident.ID,
			ResidentName:  resident.Name,
			ResidentEmail: resident.Email,
			Unit:          resident.Unit,
			Balance:       d.Balance.StringFixed(2),
			Threshold:     out.Report.Threshold.StringFixed(2),
			AsOf:          out.Report.AsOf.Format(valueobject.DateLayout),
		})
		if err != nil {
			slog.Error("Failed to queue delinquency notice", "error", err, "residentID", resident.ID)
			result.Failed = append(result.Failed, resident.ID)
			continue
		}
		result.Queued++
	}

	if result.Delinquents > 0 && result.Queued == 0 && len(result.Failed) > 0 {
		return result, domainerror.NewNotificationError(
			domainerror.ErrCodeNoticeQueueFailed,
			"no delinquency notice could be queued",
			domainerror.ErrNoticeQueueFailed,
		)
	}

	slog.Info("Delinquency notices queued",
		"communityID", out.Community.ID,
		"delinquents", result.Delinquents,
		"queued", result.Queued,
		"skipped", len(result.Skipped),
	)
	return result, nil
}
