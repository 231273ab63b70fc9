package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestChargeRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewChargeRepository(db)

	charge := entity.NewCharge("r1", "com-1", time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC), "Mantenimiento", decimal.RequireFromString("800.50"))
	require.NoError(t, repo.Create(ctx, charge))

	other := entity.NewCharge("r2", "com-1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "", decimal.NewFromInt(100))
	require.NoError(t, repo.Create(ctx, other))

	t.Run("find by resident", func(t *testing.T) {
		charges, err := repo.FindByResident(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, charges, 1)
		assert.Equal(t, charge.ID, charges[0].ID)
		assert.True(t, charges[0].Amount.Equal(decimal.RequireFromString("800.50")))
		assert.True(t, charges[0].Date.Equal(charge.Date))
	})

	t.Run("find by community", func(t *testing.T) {
		charges, err := repo.FindByCommunity(ctx, "com-1")
		require.NoError(t, err)
		assert.Len(t, charges, 2)
	})

	t.Run("create if absent is idempotent", func(t *testing.T) {
		monthly := entity.NewCharge("r1", "com-1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "Mantenimiento 2026-03", decimal.NewFromInt(800))
		monthly.ID = "mant-r1-2026-03"

		created, err := repo.CreateIfAbsent(ctx, monthly)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.CreateIfAbsent(ctx, monthly)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("legacy rows without a date load as zero dates", func(t *testing.T) {
		require.NoError(t, db.Create(&model.ChargeModel{
			ID: "legacy-1", ResidentID: "r3", CommunityID: "com-1",
			Amount: decimal.NewFromInt(10), CreatedAt: time.Now(),
		}).Error)

		charges, err := repo.FindByResident(ctx, "r3")
		require.NoError(t, err)
		require.Len(t, charges, 1)
		assert.True(t, charges[0].Date.IsZero())
	})
}

func TestPaymentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository(newTestDB(t))

	payment := entity.NewPayment("r1", "com-1", time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(500), "Transferencia")
	require.NoError(t, repo.Create(ctx, payment))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusPending, found.Status)
		assert.Equal(t, "Transferencia", found.Concept)
	})

	t.Run("missing payment", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, domainerror.ErrPaymentNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, payment.Apply())
		require.NoError(t, repo.UpdateStatus(ctx, payment))

		payments, err := repo.FindByResident(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.True(t, payments[0].IsApplied())
	})

	t.Run("update missing payment", func(t *testing.T) {
		ghost := &entity.Payment{ID: "ghost", Status: entity.PaymentStatusApplied}
		assert.ErrorIs(t, repo.UpdateStatus(ctx, ghost), domainerror.ErrPaymentNotFound)
	})
}

func TestDirectoryRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.Create(model.CommunityFromEntity(&entity.Community{ID: "com-1", Name: "Los Pinos", Timezone: "America/Mexico_City"})).Error)
	for _, r := range []entity.Resident{
		{ID: "r2", CommunityID: "com-1", Name: "Luis", Unit: "B-201", Active: true},
		{ID: "r1", CommunityID: "com-1", Name: "Ana", Unit: "A-101", Active: true},
		{ID: "r9", CommunityID: "com-2", Name: "Otro", Unit: "A-101", Active: true},
	} {
		require.NoError(t, db.Create(model.ResidentFromEntity(&r)).Error)
	}

	t.Run("community lookup", func(t *testing.T) {
		repo := NewCommunityRepository(db)

		community, err := repo.FindByID(ctx, "com-1")
		require.NoError(t, err)
		assert.Equal(t, "America/Mexico_City", community.Timezone)

		_, err = repo.FindByID(ctx, "com-404")
		assert.ErrorIs(t, err, domainerror.ErrCommunityNotFound)
	})

	t.Run("residents ordered by unit", func(t *testing.T) {
		repo := NewResidentRepository(db)

		residents, err := repo.FindByCommunity(ctx, "com-1")
		require.NoError(t, err)
		require.Len(t, residents, 2)
		assert.Equal(t, "r1", residents[0].ID)
		assert.Equal(t, "r2", residents[1].ID)

		_, err = repo.FindByID(ctx, "r404")
		assert.ErrorIs(t, err, domainerror.ErrResidentNotFound)
	})

	t.Run("config upsert replaces the value", func(t *testing.T) {
		repo := NewCommunityConfigRepository(db)

		require.NoError(t, repo.Upsert(ctx, entity.ConfigEntry{CommunityID: "com-1", Key: "MONTO_MANT", Value: "800"}))
		require.NoError(t, repo.Upsert(ctx, entity.ConfigEntry{CommunityID: "com-1", Key: "MONTO_MANT", Value: "950,00"}))

		entries, err := repo.FindByCommunity(ctx, "com-1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "950,00", entries[0].Value)
	})
}

func TestEmailQueueRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmailQueueRepository(newTestDB(t))

	job := entity.NewEmailJob(entity.TemplateDelinquencyNotice, "com-1", "r1", "ana@example.com", "Ana", "Aviso de adeudo",
		map[string]interface{}{"balance": "2400.00"})
	job.ScheduledAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, job))

	later := entity.NewEmailJob(entity.TemplateDelinquencyNotice, "com-1", "r2", "luis@example.com", "Luis", "Aviso de adeudo", nil)
	later.ScheduledAt = time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, later))

	pending, err := repo.GetPendingJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "2400.00", pending[0].StringData("balance"))

	job.MarkSent("msg-1")
	require.NoError(t, repo.Update(ctx, job))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailStatusSent, stored.Status)
	assert.Equal(t, "msg-1", stored.ProviderMessageID)

	byResident, err := repo.GetByResident(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, byResident, 1)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerror.ErrEmailJobNotFound)
}
