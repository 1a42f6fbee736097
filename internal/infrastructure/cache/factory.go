package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory picks a TagCache implementation from configuration
type Factory struct {
	cfg    config.CacheConfig
	client redis.UniversalClient
	logger *zap.Logger
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithRedis makes the factory build a Redis-backed cache
func WithRedis(client redis.UniversalClient) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a Factory
func NewFactory(cfg config.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a NoopCache when caching is disabled, a RedisTagCache when a
// client was given, and an InMemoryTagCache otherwise.
func (f *Factory) Create() TagCache {
	switch {
	case !f.cfg.Enabled:
		f.logger.Info("response cache disabled")
		return NoopCache{}
	case f.client != nil:
		f.logger.Info("using Redis tag cache", zap.String("prefix", f.cfg.KeyPrefix))
		return NewRedisTagCache(f.client, f.cfg.KeyPrefix)
	default:
		f.logger.Warn("Redis unavailable, using in-memory tag cache. " +
			"Invalidation will not reach other instances.")
		return NewInMemoryTagCache(0)
	}
}
