// Package cache provides tag-invalidated caches backed by memory or Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// TagCache stores msgpack-encoded values under keys and groups keys by tag
// so that a write elsewhere can drop every dependent entry at once.
type TagCache interface {
	// Get decodes the value under key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores value under key for ttl and indexes it under tags
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error
	// InvalidateTags removes every entry indexed under any of the tags
	InvalidateTags(ctx context.Context, tags ...string) error
	// Close releases background resources
	Close() error
}

func encode(value interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode cache value: %w", err)
	}
	return data, nil
}

func decode(data []byte, dest interface{}) error {
	if err := msgpack.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode cache value: %w", err)
	}
	return nil
}

// NoopCache never stores anything. It is used when caching is disabled.
type NoopCache struct{}

// Get always misses
func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

// Set discards the value
func (NoopCache) Set(context.Context, string, interface{}, time.Duration, ...string) error {
	return nil
}

// InvalidateTags does nothing
func (NoopCache) InvalidateTags(context.Context, ...string) error { return nil }

// Close does nothing
func (NoopCache) Close() error { return nil }

var _ TagCache = NoopCache{}
