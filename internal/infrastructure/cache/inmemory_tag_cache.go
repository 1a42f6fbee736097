package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	tags      []string
	expiresAt time.Time
}

// InMemoryTagCache implements TagCache in process memory.
// It suits single-instance deployments and tests.
type InMemoryTagCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	tags      map[string]map[string]struct{}
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryTagCache creates the cache and starts a goroutine that purges
// expired entries every cleanupInterval. Call Close to stop it.
func NewInMemoryTagCache(cleanupInterval time.Duration) *InMemoryTagCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	c := &InMemoryTagCache{
		entries:  make(map[string]entry),
		tags:     make(map[string]map[string]struct{}),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(cleanupInterval)

	return c
}

// Get decodes a live entry into dest
func (c *InMemoryTagCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return false, nil
	}
	if err := decode(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value for ttl under key and tags
func (c *InMemoryTagCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	if ttl <= 0 {
		return nil
	}
	data, err := encode(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)
	c.entries[key] = entry{data: data, tags: tags, expiresAt: c.now().Add(ttl)}
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

// InvalidateTags drops every entry under the tags
func (c *InMemoryTagCache) InvalidateTags(ctx context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.tags[tag] {
			c.removeLocked(key)
		}
		delete(c.tags, tag)
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryTagCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of stored entries, expired or not
func (c *InMemoryTagCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// removeLocked deletes key and its tag index entries; c.mu must be held
func (c *InMemoryTagCache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, tag := range e.tags {
		if keys, ok := c.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.tags, tag)
			}
		}
	}
}

func (c *InMemoryTagCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryTagCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			c.removeLocked(key)
		}
	}
}

var _ TagCache = (*InMemoryTagCache)(nil)
