package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/config"
	"github.com/notehub-gamification/internal/domain"
	"github.com/redis/go-redis/v9"
)

// registryKey tracks every cached leaderboard key so a forced refresh can
// invalidate all scopes without scanning the keyspace
const registryKey = "leaderboard:cached"

// Cache stores leaderboard snapshots per (scope, filter) with a TTL. The
// cache is advisory and display-only; it is never a source of truth for
// points, streak or referral state, so racing writers are acceptable (last
// writer wins).
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCache creates a Redis-backed leaderboard cache
func NewCache(cfg *config.RedisConfig, logger *slog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client
func (c *Cache) Client() *redis.Client {
	return c.client
}

// snapshotKey returns the cache key for one (scope, filter) pair
func (c *Cache) snapshotKey(scope domain.Scope, filter string) string {
	if filter == "" {
		return fmt.Sprintf("leaderboard:%s", scope)
	}
	return fmt.Sprintf("leaderboard:%s:%s", scope, filter)
}

// Get returns the cached snapshot for a scope, or found=false on miss or
// expiry
func (c *Cache) Get(ctx context.Context, scope domain.Scope, filter string) (*domain.LeaderboardSnapshot, bool, error) {
	data, err := c.client.Get(ctx, c.snapshotKey(scope, filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("getting cached snapshot: %w", err)
	}

	var snap domain.LeaderboardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("decoding cached snapshot: %w", err)
	}
	return &snap, true, nil
}

// Set stores a snapshot with the scope's TTL and records the key in the
// registry set
func (c *Cache) Set(ctx context.Context, snap *domain.LeaderboardSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	key := c.snapshotKey(snap.Scope, snap.Filter)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, registryKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("caching snapshot: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached leaderboard scope
func (c *Cache) InvalidateAll(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, registryKey).Result()
	if err != nil {
		return fmt.Errorf("listing cached scopes: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, keys...)
	pipe.Del(ctx, registryKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidating cached scopes: %w", err)
	}

	c.logger.Debug("invalidated leaderboard cache", "scopes", len(keys))
	return nil
}
