package dto

import (
	"github.com/condo-portal/ledger/internal/application/usecase/communityconfig"
	"github.com/condo-portal/ledger/internal/domain/entity"
)

// SetConfigRequest represents the request body for storing a configuration value.
type SetConfigRequest struct {
	Value string `json:"value"`
}

// ConfigEntryResponse represents a single configuration value.
type ConfigEntryResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ConfigListResponse represents a community's configuration.
type ConfigListResponse struct {
	CommunityID        string                `json:"community_id"`
	Entries            []ConfigEntryResponse `json:"entries"`
	MonthlyMaintenance string                `json:"monthly_maintenance"`
}

// ToConfigEntryResponse converts a ConfigEntry entity to a DTO.
func ToConfigEntryResponse(e entity.ConfigEntry) ConfigEntryResponse {
	return ConfigEntryResponse{Key: e.Key, Value: e.Value}
}

// ToConfigListResponse converts a configuration listing to a DTO.
func ToConfigListResponse(communityID string, output *communityconfig.ListConfigOutput) ConfigListResponse {
	entries := make([]ConfigEntryResponse, len(output.Entries))
	for i, e := range output.Entries {
		entries[i] = ToConfigEntryResponse(e)
	}
	return ConfigListResponse{
		CommunityID:        communityID,
		Entries:            entries,
		MonthlyMaintenance: output.MonthlyMaintenance,
	}
}
