package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tourbook/backend/internal/infrastructure/config"
)

// Tag sets live at least this long so they outlive the entries they index
const minTagTTL = 24 * time.Hour

// NewRedisClient connects to Redis and pings it
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisTagCache implements TagCache on Redis. Each tag is a set of the keys indexed under it.
// Suitable for deployments with several API instances.
type RedisTagCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisTagCache creates a cache on an existing client. The client is shared, not owned.
func NewRedisTagCache(client redis.UniversalClient, keyPrefix string) *RedisTagCache {
	if keyPrefix == "" {
		keyPrefix = "tourbook:cache:"
	}
	return &RedisTagCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisTagCache) entryKey(key string) string {
	return c.keyPrefix + "entry:" + key
}

func (c *RedisTagCache) tagKey(tag string) string {
	return c.keyPrefix + "tag:" + tag
}

// Get decodes the value under key into dest
func (c *RedisTagCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := decode(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set writes the entry and its tag memberships in one transaction
func (c *RedisTagCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	if ttl <= 0 {
		return nil
	}
	data, err := encode(value)
	if err != nil {
		return err
	}

	tagTTL := max(ttl, minTagTTL)
	entryKey := c.entryKey(key)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey, data, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, c.tagKey(tag), entryKey)
			pipe.Expire(ctx, c.tagKey(tag), tagTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// InvalidateTags deletes the entries listed in each tag set, then the sets
func (c *RedisTagCache) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	members := make([]*redis.StringSliceCmd, len(tags))
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, tag := range tags {
			members[i] = pipe.SMembers(ctx, c.tagKey(tag))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read cache tags: %w", err)
	}

	keys := make([]string, 0, len(tags))
	for i, tag := range tags {
		keys = append(keys, members[i].Val()...)
		keys = append(keys, c.tagKey(tag))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache tags: %w", err)
	}
	return nil
}

// Close does nothing; the client belongs to the caller
func (c *RedisTagCache) Close() error {
	return nil
}

var _ TagCache = (*RedisTagCache)(nil)
