package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/pos-reports/internal/infrastructure/config"
)

// PayloadCacheFactory creates payload caches based on configuration
type PayloadCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(context.Context, RedisConfig) (PayloadCache, error)
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*PayloadCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *PayloadCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *PayloadCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPayloadCacheFactory creates a new factory
func NewPayloadCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *PayloadCacheFactory {
	f := &PayloadCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: cacheCfg.AllowInMemoryFallback,
		connect: func(ctx context.Context, cfg RedisConfig) (PayloadCache, error) {
			return NewRedisPayloadCache(ctx, cfg)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed cache
func (f *PayloadCacheFactory) CreateRedisCache(ctx context.Context) (PayloadCache, error) {
	c, err := f.connect(ctx, RedisConfig{
		Addr:      f.redisConfig.Addr(),
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.cacheConfig.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis payload cache: %w", err)
	}
	return c, nil
}

// CreateCache returns nil when caching is disabled. Otherwise it tries Redis
// first and falls back to memory when allowed.
func (f *PayloadCacheFactory) CreateCache(ctx context.Context) (PayloadCache, error) {
	if !f.cacheConfig.Enabled {
		return nil, nil
	}

	c, err := f.CreateRedisCache(ctx)
	if err == nil {
		f.logger.Info("Using Redis payload cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for payload cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory payload cache. "+
		"Cached payloads will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryPayloadCache(), nil
}
