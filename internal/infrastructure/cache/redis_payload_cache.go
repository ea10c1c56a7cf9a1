package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces payload keys in Redis
const DefaultKeyPrefix = "posreports:payload:"

// RedisPayloadCache implements PayloadCache using Redis so that several
// service instances share cached payloads
type RedisPayloadCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisPayloadCache connects to Redis and verifies the connection
func NewRedisPayloadCache(ctx context.Context, cfg RedisConfig) (*RedisPayloadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPayloadCacheWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisPayloadCacheWithClient creates a cache around an existing client
func NewRedisPayloadCacheWithClient(client *redis.Client, keyPrefix string) *RedisPayloadCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisPayloadCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get implements PayloadCache
func (c *RedisPayloadCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached payload: %w", err)
	}
	return value, true, nil
}

// Set implements PayloadCache
func (c *RedisPayloadCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache payload: %w", err)
	}
	return nil
}

// Delete implements PayloadCache
func (c *RedisPayloadCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached payload: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisPayloadCache) Close() error {
	return c.client.Close()
}

func (c *RedisPayloadCache) key(key string) string {
	return c.keyPrefix + key
}

// Ensure RedisPayloadCache implements PayloadCache
var _ PayloadCache = (*RedisPayloadCache)(nil)
