// Package cache provides Redis-backed caches for computed reports.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

const (
	keyPrefix        = "ledger:delinquents"
	generationPrefix = "ledger:generation"
	scanBatchSize    = 100
)

// delinquencyCache implements adapter.DelinquencyCache on Redis.
type delinquencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDelinquencyCache creates a Redis-backed delinquency report cache.
func NewDelinquencyCache(client *redis.Client, ttl time.Duration) adapter.DelinquencyCache {
	return &delinquencyCache{
		client: client,
		ttl:    ttl,
	}
}

func reportKey(communityID string, asOf time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, communityID, asOf.Format(valueobject.DateLayout))
}

func generationKey(communityID string) string {
	return generationPrefix + ":" + communityID
}

// Get returns the cached report, or nil on a cache miss.
func (c *delinquencyCache) Get(ctx context.Context, communityID string, asOf time.Time) (*entity.DelinquencyReport, error) {
	key := reportKey(communityID, asOf)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	var report entity.DelinquencyReport
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Warn("Dropping corrupted delinquency cache entry", "key", key, "error", err)
		_ = c.client.Del(ctx, key)
		return nil, nil
	}
	return &report, nil
}

// Generation returns the community's invalidation counter, 0 when it was never invalidated.
func (c *delinquencyCache) Generation(ctx context.Context, communityID string) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey(communityID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return generation, nil
}

// Set stores the report under its as-of date if the community's generation
// still matches. The generation key is watched so an Invalidate racing with
// the write aborts it.
func (c *delinquencyCache) Set(ctx context.Context, communityID string, generation int64, report *entity.DelinquencyReport) (bool, error) {
	if report == nil {
		return false, nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return false, fmt.Errorf("failed to marshal report: %w", err)
	}

	genKey := generationKey(communityID)
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, reportKey(communityID, report.AsOf), data, c.ttl)
			return nil
		})
		stored = err == nil
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to set report in cache: %w", err)
	}
	return stored, nil
}

// Invalidate bumps the community's generation, then deletes its cached reports.
func (c *delinquencyCache) Invalidate(ctx context.Context, communityID string) error {
	if err := c.client.Incr(ctx, generationKey(communityID)).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, communityID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
