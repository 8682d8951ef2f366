package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayush/gastos-api/internal/models"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// TotalsCache caches monthly totals per user in Redis.
type TotalsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTotalsCache(rdb *redis.Client, ttl time.Duration) *TotalsCache {
	return &TotalsCache{rdb: rdb, ttl: ttl}
}

func totalsKey(userID string) string {
	return "totais:" + userID
}

// Get returns the cached totals and whether they were present.
func (c *TotalsCache) Get(ctx context.Context, userID string) ([]models.MonthlyTotal, bool, error) {
	raw, err := c.rdb.Get(ctx, totalsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get totals: %w", err)
	}
	var totals []models.MonthlyTotal
	if err := json.Unmarshal(raw, &totals); err != nil {
		return nil, false, fmt.Errorf("redis decode totals: %w", err)
	}
	return totals, true, nil
}

func (c *TotalsCache) Set(ctx context.Context, userID string, totals []models.MonthlyTotal) error {
	raw, err := json.Marshal(totals)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, totalsKey(userID), raw, c.ttl).Err()
}

func (c *TotalsCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, totalsKey(userID)).Err()
}
