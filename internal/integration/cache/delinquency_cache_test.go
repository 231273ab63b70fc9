package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func sampleReport(asOf time.Time) *entity.DelinquencyReport {
	return &entity.DelinquencyReport{
		AsOf:          asOf,
		MonthlyAmount: decimal.NewFromInt(800),
		Threshold:     decimal.NewFromInt(1600),
		Results: []entity.DelinquencyResult{
			{ResidentID: "r1", TotalCharges: decimal.NewFromInt(2400), TotalPayments: decimal.Zero, Balance: decimal.NewFromInt(2400)},
		},
	}
}

// set stores a report under the community's current generation.
func set(t *testing.T, c adapter.DelinquencyCache, communityID string, report *entity.DelinquencyReport) {
	t.Helper()
	ctx := context.Background()

	generation, err := c.Generation(ctx, communityID)
	require.NoError(t, err)
	stored, err := c.Set(ctx, communityID, generation, report)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestDelinquencyCache(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("miss returns nil", func(t *testing.T) {
		_, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		report, err := c.Get(ctx, "com-1", asOf)
		require.NoError(t, err)
		assert.Nil(t, report)
	})

	t.Run("round trip", func(t *testing.T) {
		_, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		set(t, c, "com-1", sampleReport(asOf))

		report, err := c.Get(ctx, "com-1", asOf)
		require.NoError(t, err)
		require.NotNil(t, report)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "r1", report.Results[0].ResidentID)
		assert.True(t, report.Results[0].Balance.Equal(decimal.NewFromInt(2400)))
		assert.True(t, report.AsOf.Equal(asOf))
	})

	t.Run("entries expire", func(t *testing.T) {
		server, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		set(t, c, "com-1", sampleReport(asOf))
		server.FastForward(2 * time.Minute)

		report, err := c.Get(ctx, "com-1", asOf)
		require.NoError(t, err)
		assert.Nil(t, report)
	})

	t.Run("invalidate drops only the community", func(t *testing.T) {
		_, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		set(t, c, "com-1", sampleReport(asOf))
		set(t, c, "com-1", sampleReport(asOf.AddDate(0, 0, 1)))
		set(t, c, "com-2", sampleReport(asOf))

		require.NoError(t, c.Invalidate(ctx, "com-1"))

		report, err := c.Get(ctx, "com-1", asOf)
		require.NoError(t, err)
		assert.Nil(t, report)

		report, err = c.Get(ctx, "com-2", asOf)
		require.NoError(t, err)
		assert.NotNil(t, report)
	})

	t.Run("reports computed before an invalidation are not stored", func(t *testing.T) {
		server, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		generation, err := c.Generation(ctx, "com-1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), generation)

		require.NoError(t, c.Invalidate(ctx, "com-1"))

		stored, err := c.Set(ctx, "com-1", generation, sampleReport(asOf))
		require.NoError(t, err)
		assert.False(t, stored)
		assert.False(t, server.Exists(reportKey("com-1", asOf)))

		generation, err = c.Generation(ctx, "com-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), generation)

		stored, err = c.Set(ctx, "com-1", generation, sampleReport(asOf))
		require.NoError(t, err)
		assert.True(t, stored)
	})

	t.Run("generations are per community", func(t *testing.T) {
		_, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		require.NoError(t, c.Invalidate(ctx, "com-1"))

		generation, err := c.Generation(ctx, "com-2")
		require.NoError(t, err)
		stored, err := c.Set(ctx, "com-2", generation, sampleReport(asOf))
		require.NoError(t, err)
		assert.True(t, stored)
	})

	t.Run("corrupted entries are dropped", func(t *testing.T) {
		server, client := newTestCache(t)
		c := NewDelinquencyCache(client, time.Minute)

		require.NoError(t, server.Set(reportKey("com-1", asOf), "{not json"))

		report, err := c.Get(ctx, "com-1", asOf)
		require.NoError(t, err)
		assert.Nil(t, report)
		assert.False(t, server.Exists(reportKey("com-1", asOf)))
	})
}
