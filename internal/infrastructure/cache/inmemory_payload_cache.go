package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// entry is a cached payload with its expiry
type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryPayloadCache implements PayloadCache using an in-memory map.
// State is not shared between process instances.
type InMemoryPayloadCache struct {
	mu              sync.RWMutex
	entries         map[string]entry
	now             func() time.Time
	cleanupInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
	closeOnce       sync.Once
	closed          bool
}

// InMemoryOption configures an InMemoryPayloadCache
type InMemoryOption func(*InMemoryPayloadCache)

// WithClock overrides the time source
func WithClock(now func() time.Time) InMemoryOption {
	return func(c *InMemoryPayloadCache) {
		c.now = now
	}
}

// WithCleanupInterval sets how often expired entries are purged
func WithCleanupInterval(d time.Duration) InMemoryOption {
	return func(c *InMemoryPayloadCache) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// NewInMemoryPayloadCache creates a new in-memory cache and starts its
// cleanup goroutine
func NewInMemoryPayloadCache(opts ...InMemoryOption) *InMemoryPayloadCache {
	c := &InMemoryPayloadCache{
		entries:         make(map[string]entry),
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stopChan:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a copy of the cached value
func (c *InMemoryPayloadCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, false, ErrClosed
	}
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(e.value), true, nil
}

// Set stores a copy of value
func (c *InMemoryPayloadCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.entries[key] = entry{
		value:     slices.Clone(value),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes key
func (c *InMemoryPayloadCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryPayloadCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()

		c.mu.Lock()
		c.closed = true
		c.entries = make(map[string]entry)
		c.mu.Unlock()
	})
	return nil
}

func (c *InMemoryPayloadCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cleanupInterval)
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

// cleanup removes expired entries
func (c *InMemoryPayloadCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries, expired ones included
func (c *InMemoryPayloadCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryPayloadCache implements PayloadCache
var _ PayloadCache = (*InMemoryPayloadCache)(nil)
