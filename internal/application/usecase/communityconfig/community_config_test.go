package communityconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/condo-portal/ledger/internal/application/adapter/adaptertest"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

func TestSetConfig_Execute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		communityID string
		key         string
		value       string
		expectedErr error
	}{
		{name: "maintenance amount with comma", communityID: "com-1", key: "MONTO_MANT", value: "1250,50"},
		{name: "free-form key", communityID: "com-1", key: "BANCO", value: "CLABE 0123"},
		{name: "blank key", communityID: "com-1", key: "  ", value: "x", expectedErr: domainerror.ErrEmptyConfigKey},
		{name: "negative maintenance", communityID: "com-1", key: "MONTO_MANT", value: "-1", expectedErr: domainerror.ErrInvalidAmount},
		{name: "garbage maintenance", communityID: "com-1", key: "MONTO_MANT", value: "mucho", expectedErr: domainerror.ErrInvalidAmount},
		{name: "unknown community", communityID: "com-9", key: "MONTO_MANT", value: "1", expectedErr: domainerror.ErrCommunityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := adaptertest.NewStore()
			store.AddCommunity(entity.Community{ID: "com-1"})
			cache := adaptertest.NewCache()
			uc := NewSetConfigUseCase(store.CommunityRepository(), store.ConfigRepository(), cache)

			_, err := uc.Execute(ctx, SetConfigInput{CommunityID: tt.communityID, Key: tt.key, Value: tt.value})
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store.Config["com-1"][tt.key] != tt.value {
				t.Errorf("expected stored value %q, got %q", tt.value, store.Config["com-1"][tt.key])
			}
		})
	}
}

func TestListConfig_Execute(t *testing.T) {
	store := adaptertest.NewStore()
	store.AddCommunity(entity.Community{ID: "com-1"})
	store.SetConfig("com-1", "MONTO_MANT", "no es numero")
	uc := NewListConfigUseCase(store.CommunityRepository(), store.ConfigRepository())

	out, err := uc.Execute(context.Background(), ListConfigInput{CommunityID: "com-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(out.Entries))
	}
	if out.MonthlyMaintenance != "800.00" {
		t.Errorf("expected effective default 800.00, got %s", out.MonthlyMaintenance)
	}
}
