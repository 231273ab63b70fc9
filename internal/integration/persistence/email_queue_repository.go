package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
)

// emailQueueRepository stores notice jobs in the email_queue table.
type emailQueueRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEmailQueueRepository creates a new email queue repository instance.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create enqueues a job.
func (r *emailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	if err := r.db.WithContext(ctx).Create(model.EmailQueueModelFromEntity(job)).Error; err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNoticeQueueFailed,
			"failed to enqueue notice for resident "+job.ResidentID,
			err,
		)
	}
	return nil
}

// GetPendingJobs returns up to limit pending jobs whose schedule has passed.
func (r *emailQueueRepository) GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error) {
	return r.list(r.db.WithContext(ctx).
		Scopes(dueBy(r.now())).
		Order("scheduled_at ASC").
		Limit(limit))
}

// Update overwrites the stored job.
func (r *emailQueueRepository) Update(ctx context.Context, job *entity.EmailJob) error {
	return r.db.WithContext(ctx).Save(model.EmailQueueModelFromEntity(job)).Error
}

// GetByID returns domainerror.ErrEmailJobNotFound for unknown IDs.
func (r *emailQueueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	var row model.EmailQueueModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domainerror.ErrEmailJobNotFound
	case err != nil:
		return nil, err
	}
	return row.ToEntity(), nil
}

// GetByResident lists a resident's notices, newest first.
func (r *emailQueueRepository) GetByResident(ctx context.Context, residentID string) ([]*entity.EmailJob, error) {
	return r.list(r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC"))
}

func (r *emailQueueRepository) list(query *gorm.DB) ([]*entity.EmailJob, error) {
	var rows []model.EmailQueueModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	jobs := make([]*entity.EmailJob, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].ToEntity())
	}
	return jobs, nil
}

// dueBy limits a query to pending jobs scheduled no later than at.
func dueBy(at time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND scheduled_at <= ?", entity.EmailStatusPending, at)
	}
}
