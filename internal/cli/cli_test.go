package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condo-portal/ledger/config"
	"github.com/condo-portal/ledger/internal/infra/db"
	"github.com/condo-portal/ledger/internal/infra/dependency"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
)

func date(s string) *time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return &d
}

// useTestDatabase points the commands at a seeded in-memory database.
func useTestDatabase(t *testing.T) {
	t.Helper()

	cfg := config.Load()
	cfg.Database = config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	}

	database, err := db.NewConnection(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(model.All()...))

	gdb := database.DB()
	require.NoError(t, gdb.Create(&model.CommunityModel{ID: "com-1", Name: "Torres del Lago", Timezone: "UTC"}).Error)
	require.NoError(t, gdb.Create(&[]model.ResidentModel{
		{ID: "r1", CommunityID: "com-1", Name: "Ana", Unit: "A-101", Email: "ana@example.com", Active: true},
		{ID: "r2", CommunityID: "com-1", Name: "Luis", Unit: "B-202", Active: true},
	}).Error)

	now := time.Now().UTC()
	var charges []model.ChargeModel
	for _, resident := range []string{"r1", "r2"} {
		for _, month := range []string{"2026-01-01", "2026-02-01", "2026-03-01"} {
			charges = append(charges, model.ChargeModel{
				ID:          resident + "-" + month,
				ResidentID:  resident,
				CommunityID: "com-1",
				Date:        date(month),
				Description: "Mantenimiento",
				Amount:      decimal.NewFromInt(800),
				CreatedAt:   now,
			})
		}
	}
	require.NoError(t, gdb.Create(&charges).Error)
	require.NoError(t, gdb.Create(&[]model.PaymentModel{
		{ID: "p1", ResidentID: "r1", CommunityID: "com-1", PaymentDate: date("2026-02-05"), Amount: decimal.NewFromInt(800), Concept: "Transferencia", Status: "APLICADO", CreatedAt: now, UpdatedAt: now},
		{ID: "p2", ResidentID: "r2", CommunityID: "com-1", PaymentDate: date("2026-03-02"), Amount: decimal.NewFromInt(2400), Concept: "Pago anual", Status: "APLICADO", CreatedAt: now, UpdatedAt: now},
		{ID: "p3", ResidentID: "r1", CommunityID: "com-1", PaymentDate: date("2026-03-05"), Amount: decimal.NewFromInt(500), Concept: "Depósito", Status: "PENDIENTE", CreatedAt: now, UpdatedAt: now},
	}).Error)

	injector, err := dependency.NewInjector(cfg, gdb, nil, database.HealthCheck)
	require.NoError(t, err)

	previous := openUseCases
	openUseCases = func() (*dependency.UseCases, func(), error) {
		return &injector.UseCases, func() {}, nil
	}
	t.Cleanup(func() { openUseCases = previous })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFormat, asOfFlag = "table", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLedgerCommand(t *testing.T) {
	useTestDatabase(t)

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "ledger", "r1", "--as-of", "2026-03-10")
		require.NoError(t, err)
		assert.Contains(t, out, "Ana (A-101)")
		assert.Contains(t, out, "1600.00")
		assert.Contains(t, out, "Depósito")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "ledger", "r1", "--as-of", "2026-03-10", "-o", "json")
		require.NoError(t, err)

		var resp dto.LedgerResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "1600.00", resp.CurrentBalance)
		require.Len(t, resp.Rows, 5)
		assert.Equal(t, "p3", resp.Rows[0].SourceID)
	})

	t.Run("yaml keeps api field names", func(t *testing.T) {
		out, err := run(t, "ledger", "r1", "--as-of", "2026-02-15", "-o", "yaml")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "resident_id: r1\n"))
		assert.Contains(t, out, "current_balance:")
		assert.Contains(t, out, "800.00")
		assert.NotContains(t, out, "{")
	})

	t.Run("unknown resident", func(t *testing.T) {
		_, err := run(t, "ledger", "nobody")
		assert.Error(t, err)
	})

	t.Run("invalid as-of", func(t *testing.T) {
		_, err := run(t, "ledger", "r1", "--as-of", "10/03/2026")
		assert.ErrorContains(t, err, "invalid --as-of")
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := run(t, "ledger", "r1", "-o", "xml")
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestDelinquentsCommand(t *testing.T) {
	useTestDatabase(t)

	out, err := run(t, "delinquents", "com-1", "--as-of", "2026-03-10", "-o", "json")
	require.NoError(t, err)

	var resp dto.DelinquencyReportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "1600.00", resp.Threshold)
	require.Len(t, resp.Delinquents, 1)
	assert.Equal(t, "r1", resp.Delinquents[0].ResidentID)
	assert.False(t, resp.Cached)

	out, err = run(t, "delinquents", "com-1", "--as-of", "2026-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "RESIDENTE")
	assert.Contains(t, out, "A-101")
	assert.NotContains(t, out, "B-202")
}

func TestNotifyCommand(t *testing.T) {
	useTestDatabase(t)

	out, err := run(t, "notify", "com-1", "--as-of", "2026-03-10", "-o", "json")
	require.NoError(t, err)

	var resp dto.NotifyDelinquentsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Delinquents)
	assert.Equal(t, 1, resp.Queued)
	assert.Empty(t, resp.Failed)
}
