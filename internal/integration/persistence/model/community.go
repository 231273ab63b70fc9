package model

import (
	"github.com/condo-portal/ledger/internal/domain/entity"
)

// CommunityModel represents the communities table in the database.
type CommunityModel struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Timezone string `gorm:"type:varchar(64)"`
}

// TableName returns the table name for the CommunityModel.
func (CommunityModel) TableName() string {
	return "communities"
}

// ToEntity converts a CommunityModel to a domain Community entity.
func (m *CommunityModel) ToEntity() *entity.Community {
	return &entity.Community{
		ID:       m.ID,
		Name:     m.Name,
		Timezone: m.Timezone,
	}
}

// CommunityFromEntity creates a CommunityModel from a domain Community entity.
func CommunityFromEntity(c *entity.Community) *CommunityModel {
	return &CommunityModel{
		ID:       c.ID,
		Name:     c.Name,
		Timezone: c.Timezone,
	}
}

// ResidentModel represents the residents table in the database.
type ResidentModel struct {
	ID          string `gorm:"type:varchar(64);primaryKey"`
	CommunityID string `gorm:"type:varchar(64);not null;index"`
	Name        string `gorm:"type:varchar(255);not null"`
	Unit        string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(255)"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for the ResidentModel.
func (ResidentModel) TableName() string {
	return "residents"
}

// ToEntity converts a ResidentModel to a domain Resident entity.
func (m *ResidentModel) ToEntity() entity.Resident {
	return entity.Resident{
		ID:          m.ID,
		CommunityID: m.CommunityID,
		Name:        m.Name,
		Unit:        m.Unit,
		Email:       m.Email,
		Active:      m.Active,
	}
}

// ResidentFromEntity creates a ResidentModel from a domain Resident entity.
func ResidentFromEntity(r *entity.Resident) *ResidentModel {
	return &ResidentModel{
		ID:          r.ID,
		CommunityID: r.CommunityID,
		Name:        r.Name,
		Unit:        r.Unit,
		Email:       r.Email,
		Active:      r.Active,
	}
}

// CommunityConfigModel represents the community_config key/value table.
type CommunityConfigModel struct {
	CommunityID string `gorm:"type:varchar(64);primaryKey"`
	Key         string `gorm:"column:config_key;type:varchar(100);primaryKey"`
	Value       string `gorm:"type:text;not null"`
}

// TableName returns the table name for the CommunityConfigModel.
func (CommunityConfigModel) TableName() string {
	return "community_config"
}

// ToEntity converts a CommunityConfigModel to a domain ConfigEntry.
func (m *CommunityConfigModel) ToEntity() entity.ConfigEntry {
	return entity.ConfigEntry{
		CommunityID: m.CommunityID,
		Key:         m.Key,
		Value:       m.Value,
	}
}
