package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/email/templates"
)

// Delivery outcomes reported per job.
const (
	OutcomeSent    = "sent"
	OutcomeRetried = "retried"
	OutcomeFailed  = "failed"
)

// BatchSummary counts the outcomes of one pass over the queue.
type BatchSummary struct {
	Sent    int
	Retried int
	Failed  int
}

func (s *BatchSummary) add(outcome string) {
	switch outcome {
	case OutcomeSent:
		s.Sent++
	case OutcomeRetried:
		s.Retried++
	case OutcomeFailed:
		s.Failed++
	}
}

// Total is the number of jobs handled in the pass.
func (s BatchSummary) Total() int {
	return s.Sent + s.Retried + s.Failed
}

// WorkerConfig holds configuration for the notice worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Metrics is optional.
	Metrics adapter.NoticeMetrics
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// Worker drains the email queue, rendering each notice and handing it to the sender.
type Worker struct {
	queue    adapter.EmailQueueRepository
	sender   adapter.EmailSender
	renderer *templates.Renderer
	metrics  adapter.NoticeMetrics
	config   WorkerConfig
}

// NewWorker creates a notice worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	if config.PollInterval <= 0 || config.BatchSize <= 0 {
		defaults := DefaultWorkerConfig()
		if config.PollInterval <= 0 {
			config.PollInterval = defaults.PollInterval
		}
		if config.BatchSize <= 0 {
			config.BatchSize = defaults.BatchSize
		}
	}
	return &Worker{
		queue:    queue,
		sender:   sender,
		renderer: renderer,
		metrics:  config.Metrics,
		config:   config,
	}
}

// Start polls the queue until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Notice worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		w.ProcessNow(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Notice worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNow handles one batch of due jobs and reports what happened to them.
func (w *Worker) ProcessNow(ctx context.Context) BatchSummary {
	var summary BatchSummary

	jobs, err := w.queue.GetPendingJobs(ctx, w.config.BatchSize)
	if err != nil {
		slog.Error("Failed to load pending notices", "error", err)
		return summary
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		outcome := w.deliver(ctx, job)
		summary.add(outcome)
		if w.metrics != nil {
			w.metrics.NoticeDelivered(outcome)
		}
	}

	if summary.Total() > 0 {
		slog.Info("Notice batch processed",
			"sent", summary.Sent,
			"retried", summary.Retried,
			"failed", summary.Failed,
		)
	}
	return summary
}

// deliver sends one job and persists its new state.
func (w *Worker) deliver(ctx context.Context, job *entity.EmailJob) string {
	logger := slog.With(
		"job_id", job.ID,
		"community_id", job.CommunityID,
		"resident_id", job.ResidentID,
	)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		// Left for the next pass; another worker may own it.
		logger.Error("Failed to claim notice", "error", err)
		return OutcomeRetried
	}

	message, err := w.compose(job)
	if err != nil {
		return w.fail(ctx, logger, job, err, true)
	}

	result, err := w.sender.Send(ctx, message)
	if err != nil {
		var notificationErr *domainerror.NotificationError
		permanent := errors.As(err, &notificationErr) && notificationErr.IsPermanent()
		return w.fail(ctx, logger, job, err, permanent)
	}

	job.MarkSent(result.MessageID)
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Notice sent but its state was not saved", "error", err)
	}
	logger.Info("Delinquency notice sent", "message_id", result.MessageID)
	return OutcomeSent
}

// compose renders the message for a queued job.
func (w *Worker) compose(job *entity.EmailJob) (adapter.SendEmailInput, error) {
	if !w.renderer.Has(string(job.Template)) {
		return adapter.SendEmailInput{}, domainerror.NewNotificationError(
			domainerror.ErrCodeUnknownTemplate,
			"unknown template "+string(job.Template),
			domainerror.ErrUnknownTemplate,
		)
	}

	html, text, err := w.renderer.Render(string(job.Template), templates.DelinquencyNoticeData{
		ResidentName: job.StringData("resident_name"),
		Unit:         job.StringData("unit"),
		Balance:      job.StringData("balance"),
		Threshold:    job.StringData("threshold"),
		AsOf:         job.StringData("as_of"),
		StatementURL: job.StringData("statement_url"),
	})
	if err != nil {
		return adapter.SendEmailInput{}, err
	}

	return adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
		Tags: map[string]string{
			"community": job.CommunityID,
			"template":  string(job.Template),
		},
	}, nil
}

// fail records a failed attempt; the job is retried unless the error is permanent
// or its attempts are used up.
func (w *Worker) fail(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, cause error, permanent bool) string {
	job.MarkFailed(cause, permanent)
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to save notice failure", "error", err)
	}

	if job.Status == entity.EmailStatusFailed {
		logger.Warn("Delinquency notice abandoned",
			"attempts", job.Attempts,
			"error", cause,
		)
		return OutcomeFailed
	}

	logger.Warn("Delinquency notice will be retried",
		"attempts", job.Attempts,
		"scheduled_at", job.ScheduledAt,
		"error", cause,
	)
	return OutcomeRetried
}
