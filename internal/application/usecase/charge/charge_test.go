package charge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter/adaptertest"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

func newStore() *adaptertest.Store {
	store := adaptertest.NewStore()
	store.AddCommunity(entity.Community{ID: "com-1", Name: "Los Pinos"})
	store.AddResident(entity.Resident{ID: "r1", CommunityID: "com-1", Unit: "A-101", Active: true})
	store.AddResident(entity.Resident{ID: "r2", CommunityID: "com-1", Unit: "A-102", Active: true})
	store.AddResident(entity.Resident{ID: "r3", CommunityID: "com-1", Unit: "A-103", Active: false})
	return store
}

func TestRecordCharge_Execute(t *testing.T) {
	ctx := context.Background()
	chargeDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       RecordChargeInput
		expectedErr error
	}{
		{
			name:  "valid charge",
			input: RecordChargeInput{ResidentID: "r1", Date: chargeDate, Description: " Multa ", Amount: decimal.NewFromInt(250)},
		},
		{
			name:        "zero amount",
			input:       RecordChargeInput{ResidentID: "r1", Date: chargeDate, Amount: decimal.Zero},
			expectedErr: domainerror.ErrInvalidAmount,
		},
		{
			name:        "missing date",
			input:       RecordChargeInput{ResidentID: "r1", Amount: decimal.NewFromInt(10)},
			expectedErr: domainerror.ErrInvalidDate,
		},
		{
			name:        "unknown resident",
			input:       RecordChargeInput{ResidentID: "r9", Date: chargeDate, Amount: decimal.NewFromInt(10)},
			expectedErr: domainerror.ErrResidentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			cache := adaptertest.NewCache()
			uc := NewRecordChargeUseCase(store.ResidentRepository(), store.ChargeRepository(), cache)

			out, err := uc.Execute(ctx, tt.input)
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Charge.Description != "Multa" {
				t.Errorf("expected trimmed description, got %q", out.Charge.Description)
			}
			if out.Charge.CommunityID != "com-1" {
				t.Errorf("expected community from resident, got %s", out.Charge.CommunityID)
			}
			if cache.Invalidations != 1 {
				t.Errorf("expected cache invalidation, got %d", cache.Invalidations)
			}
		})
	}
}

func TestGenerateMaintenanceCharges_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("bills active residents once per month", func(t *testing.T) {
		store := newStore()
		store.SetConfig("com-1", "MONTO_MANT", "950.50")
		uc := NewGenerateMaintenanceChargesUseCase(
			store.CommunityRepository(), store.ResidentRepository(),
			store.ConfigRepository(), store.ChargeRepository(), nil,
		)

		first, err := uc.Execute(ctx, GenerateMaintenanceChargesInput{CommunityID: "com-1", Month: "2026-10"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Created != 2 || first.Skipped != 0 {
			t.Errorf("expected 2 created, got %d created and %d skipped", first.Created, first.Skipped)
		}
		if !first.Amount.Equal(decimal.RequireFromString("950.50")) {
			t.Errorf("expected amount 950.50, got %s", first.Amount)
		}

		second, err := uc.Execute(ctx, GenerateMaintenanceChargesInput{CommunityID: "com-1", Month: "2026-10"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second.Created != 0 || second.Skipped != 2 {
			t.Errorf("expected rerun to skip 2, got %d created and %d skipped", second.Created, second.Skipped)
		}

		charge, ok := store.Charges[MaintenanceChargeID("r1", "2026-10")]
		if !ok {
			t.Fatal("expected deterministic maintenance charge ID")
		}
		if !charge.Date.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected charge on the first of the month, got %s", charge.Date)
		}
	})

	t.Run("falls back to the default amount", func(t *testing.T) {
		store := newStore()
		store.SetConfig("com-1", "MONTO_MANT", "-5")
		uc := NewGenerateMaintenanceChargesUseCase(
			store.CommunityRepository(), store.ResidentRepository(),
			store.ConfigRepository(), store.ChargeRepository(), nil,
		)

		out, err := uc.Execute(ctx, GenerateMaintenanceChargesInput{CommunityID: "com-1", Month: "2026-10"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Amount.Equal(decimal.NewFromInt(800)) {
			t.Errorf("expected default amount 800, got %s", out.Amount)
		}
	})

	t.Run("rejects malformed months", func(t *testing.T) {
		store := newStore()
		uc := NewGenerateMaintenanceChargesUseCase(
			store.CommunityRepository(), store.ResidentRepository(),
			store.ConfigRepository(), store.ChargeRepository(), nil,
		)

		_, err := uc.Execute(ctx, GenerateMaintenanceChargesInput{CommunityID: "com-1", Month: "10/2026"})
		if !errors.Is(err, domainerror.ErrInvalidMonth) {
			t.Errorf("expected ErrInvalidMonth, got %v", err)
		}
	})
}
