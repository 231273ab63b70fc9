package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/condo-portal/ledger/internal/domain/entity"
)

// newMockPostgres opens gorm on a mocked postgres connection, so the
// dialect-specific SQL of the repositories can be checked.
func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestChargeRepository_CreateIfAbsent_Postgres(t *testing.T) {
	charge := &entity.Charge{
		ID:          "com-1:r1:2026-03",
		ResidentID:  "r1",
		CommunityID: "com-1",
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Mantenimiento 2026-03",
		Amount:      decimal.NewFromInt(800),
		CreatedAt:   time.Now().UTC(),
	}

	t.Run("inserts a new charge", func(t *testing.T) {
		gormDB, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "charges" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := NewChargeRepository(gormDB).CreateIfAbsent(context.Background(), charge)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports an existing charge", func(t *testing.T) {
		gormDB, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "charges" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := NewChargeRepository(gormDB).CreateIfAbsent(context.Background(), charge)
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "charges"`).
			WillReturnError(errors.New("connection reset"))

		_, err := NewChargeRepository(gormDB).CreateIfAbsent(context.Background(), charge)
		assert.ErrorContains(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommunityConfigRepository_Upsert_Postgres(t *testing.T) {
	gormDB, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO "community_config" .* ON CONFLICT \("community_id","config_key"\) DO UPDATE SET "value"`).
		WithArgs("com-1", "MONTO_MANT", "950").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewCommunityConfigRepository(gormDB).Upsert(context.Background(), entity.ConfigEntry{
		CommunityID: "com-1",
		Key:         "MONTO_MANT",
		Value:       "950",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
