// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
)

// chargeRepository implements the adapter.ChargeRepository interface.
type chargeRepository struct {
	db *gorm.DB
}

// NewChargeRepository creates a new charge repository instance.
func NewChargeRepository(db *gorm.DB) adapter.ChargeRepository {
	return &chargeRepository{
		db: db,
	}
}

// Create creates a new charge in the database.
func (r *chargeRepository) Create(ctx context.Context, charge *entity.Charge) error {
	result := r.db.WithContext(ctx).Create(model.ChargeFromEntity(charge))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// CreateIfAbsent inserts the charge unless its ID is already taken.
func (r *chargeRepository) CreateIfAbsent(ctx context.Context, charge *entity.Charge) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model.ChargeFromEntity(charge))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindByResident retrieves every charge of a resident.
func (r *chargeRepository) FindByResident(ctx context.Context, residentID string) ([]entity.Charge, error) {
	return r.find(ctx, "resident_id = ?", residentID)
}

// FindByCommunity retrieves every charge of a community.
func (r *chargeRepository) FindByCommunity(ctx context.Context, communityID string) ([]entity.Charge, error) {
	return r.find(ctx, "community_id = ?", communityID)
}

func (r *chargeRepository) find(ctx context.Context, query string, arg string) ([]entity.Charge, error) {
	var models []model.ChargeModel
	result := r.db.WithContext(ctx).
		Where(query, arg).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	charges := make([]entity.Charge, len(models))
	for i := range models {
		charges[i] = models[i].ToEntity()
	}
	return charges, nil
}
