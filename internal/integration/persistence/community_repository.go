package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
)

// communityRepository implements the adapter.CommunityRepository interface.
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository instance.
func NewCommunityRepository(db *gorm.DB) adapter.CommunityRepository {
	return &communityRepository{db: db}
}

// FindByID retrieves a community by its ID.
func (r *communityRepository) FindByID(ctx context.Context, id string) (*entity.Community, error) {
	var communityModel model.CommunityModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&communityModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCommunityNotFound
		}
		return nil, result.Error
	}
	return communityModel.ToEntity(), nil
}

// residentRepository implements the adapter.ResidentRepository interface.
type residentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new resident repository instance.
func NewResidentRepository(db *gorm.DB) adapter.ResidentRepository {
	return &residentRepository{db: db}
}

// FindByID retrieves a resident by its ID.
func (r *residentRepository) FindByID(ctx context.Context, id string) (*entity.Resident, error) {
	var residentModel model.ResidentModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&residentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrResidentNotFound
		}
		return nil, result.Error
	}
	resident := residentModel.ToEntity()
	return &resident, nil
}

// FindByCommunity retrieves the residents of a community ordered by unit.
func (r *residentRepository) FindByCommunity(ctx context.Context, communityID string) ([]entity.Resident, error) {
	var models []model.ResidentModel
	result := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("unit ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	residents := make([]entity.Resident, len(models))
	for i := range models {
		residents[i] = models[i].ToEntity()
	}
	return residents, nil
}

// communityConfigRepository implements the adapter.CommunityConfigRepository interface.
type communityConfigRepository struct {
	db *gorm.DB
}

// NewCommunityConfigRepository creates a new community configuration repository instance.
func NewCommunityConfigRepository(db *gorm.DB) adapter.CommunityConfigRepository {
	return &communityConfigRepository{db: db}
}

// FindByCommunity retrieves every configuration entry of a community.
func (r *communityConfigRepository) FindByCommunity(ctx context.Context, communityID string) ([]entity.ConfigEntry, error) {
	var models []model.CommunityConfigModel
	result := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("config_key ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]entity.ConfigEntry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntity()
	}
	return entries, nil
}

// Upsert creates or replaces a configuration entry.
func (r *communityConfigRepository) Upsert(ctx context.Context, entry entity.ConfigEntry) error {
	configModel := &model.CommunityConfigModel{
		CommunityID: entry.CommunityID,
		Key:         entry.Key,
		Value:       entry.Value,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "config_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(configModel)
	return result.Error
}
