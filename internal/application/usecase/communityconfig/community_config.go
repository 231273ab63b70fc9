// Package communityconfig contains community configuration use cases.
package communityconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// SetConfigInput represents the input for setting a configuration value.
type SetConfigInput struct {
	CommunityID string
	Key         string
	Value       string
	Scope       adapter.CommunityScope
}

// SetConfigOutput represents the stored configuration entry.
type SetConfigOutput struct {
	Entry entity.ConfigEntry
}

// SetConfigUseCase creates or replaces a community configuration value.
type SetConfigUseCase struct {
	communityRepo adapter.CommunityRepository
	configRepo    adapter.CommunityConfigRepository
	cache         adapter.DelinquencyCache
}

// NewSetConfigUseCase creates a new SetConfigUseCase instance.
func NewSetConfigUseCase(
	communityRepo adapter.CommunityRepository,
	configRepo adapter.CommunityConfigRepository,
	cache adapter.DelinquencyCache,
) *SetConfigUseCase {
	return &SetConfigUseCase{
		communityRepo: communityRepo,
		configRepo:    configRepo,
		cache:         cache,
	}
}

// Execute stores the value.
// The maintenance amount must parse as a non-negative decimal; other keys are free-form.
func (uc *SetConfigUseCase) Execute(ctx context.Context, input SetConfigInput) (*SetConfigOutput, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeEmptyConfigKey,
			"configuration key is required",
			domainerror.ErrEmptyConfigKey,
		)
	}

	value := strings.TrimSpace(input.Value)
	if key == valueobject.MaintenanceConfigKey {
		amount, err := valueobject.ParseAmount(value)
		if err != nil || amount.IsNegative() {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidAmount,
				"maintenance amount must be a non-negative decimal",
				domainerror.ErrInvalidAmount,
			)
		}
	}

	if err := checkCommunity(ctx, uc.communityRepo, input.CommunityID, input.Scope); err != nil {
		return nil, err
	}

	entry := entity.ConfigEntry{CommunityID: input.CommunityID, Key: key, Value: value}
	if err := uc.configRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	if key == valueobject.MaintenanceConfigKey && uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, input.CommunityID); err != nil {
			slog.Warn("Failed to invalidate delinquency cache", "communityID", input.CommunityID, "error", err)
		}
	}

	return &SetConfigOutput{Entry: entry}, nil
}

// ListConfigInput represents the input for listing a community's configuration.
type ListConfigInput struct {
	CommunityID string
	Scope       adapter.CommunityScope
}

// ListConfigOutput represents a community's configuration.
type ListConfigOutput struct {
	Entries            []entity.ConfigEntry
	MonthlyMaintenance string // Effective amount, default applied
}

// ListConfigUseCase lists a community's configuration values.
type ListConfigUseCase struct {
	communityRepo adapter.CommunityRepository
	configRepo    adapter.CommunityConfigRepository
}

// NewListConfigUseCase creates a new ListConfigUseCase instance.
func NewListConfigUseCase(communityRepo adapter.CommunityRepository, configRepo adapter.CommunityConfigRepository) *ListConfigUseCase {
	return &ListConfigUseCase{
		communityRepo: communityRepo,
		configRepo:    configRepo,
	}
}

// Execute lists the entries.
func (uc *ListConfigUseCase) Execute(ctx context.Context, input ListConfigInput) (*ListConfigOutput, error) {
	if err := checkCommunity(ctx, uc.communityRepo, input.CommunityID, input.Scope); err != nil {
		return nil, err
	}

	entries, err := uc.configRepo.FindByCommunity(ctx, input.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	values := make([]valueobject.ConfigValue, len(entries))
	for i, e := range entries {
		values[i] = valueobject.ConfigValue{Key: e.Key, Value: e.Value}
	}
	monthly, _ := valueobject.ResolveMonthlyMaintenance(values)

	return &ListConfigOutput{
		Entries:            entries,
		MonthlyMaintenance: monthly.StringFixed(2),
	}, nil
}

func checkCommunity(ctx context.Context, repo adapter.CommunityRepository, communityID string, scope adapter.CommunityScope) error {
	if !scope.Allows(communityID) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeCommunityForbidden,
			"not authorized to access this community",
			domainerror.ErrMissingCommunityScope,
		)
	}

	if _, err := repo.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, domainerror.ErrCommunityNotFound) {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeCommunityNotFound,
				"community not found",
				domainerror.ErrCommunityNotFound,
			)
		}
		return fmt.Errorf("failed to find community: %w", err)
	}
	return nil
}
