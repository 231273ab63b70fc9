package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
)

// paymentRepository implements the adapter.PaymentRepository interface.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance.
func NewPaymentRepository(db *gorm.DB) adapter.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// Create creates a new payment in the database.
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	result := r.db.WithContext(ctx).Create(model.PaymentFromEntity(payment))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a payment by its ID.
func (r *paymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	var paymentModel model.PaymentModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&paymentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPaymentNotFound
		}
		return nil, result.Error
	}
	payment := paymentModel.ToEntity()
	return &payment, nil
}

// UpdateStatus persists the payment's status.
func (r *paymentRepository) UpdateStatus(ctx context.Context, payment *entity.Payment) error {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":     string(payment.Status),
			"updated_at": payment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPaymentNotFound
	}
	return nil
}

// FindByResident retrieves every payment of a resident.
func (r *paymentRepository) FindByResident(ctx context.Context, residentID string) ([]entity.Payment, error) {
	return r.find(ctx, "resident_id = ?", residentID)
}

// FindByCommunity retrieves every payment of a community.
func (r *paymentRepository) FindByCommunity(ctx context.Context, communityID string) ([]entity.Payment, error) {
	return r.find(ctx, "community_id = ?", communityID)
}

func (r *paymentRepository) find(ctx context.Context, query string, arg string) ([]entity.Payment, error) {
	var models []model.PaymentModel
	result := r.db.WithContext(ctx).
		Where(query, arg).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	payments := make([]entity.Payment, len(models))
	for i := range models {
		payments[i] = models[i].ToEntity()
	}
	return payments, nil
}
