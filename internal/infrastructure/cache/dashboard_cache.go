// Package cache holds the dashboard snapshot caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dashboardKeyPrefix = "crm:dashboard:"

// DashboardCache stores complete dashboard snapshots per tenant
type DashboardCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (analytics.Dashboard, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, d analytics.Dashboard, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// RedisDashboardCache keeps snapshots as JSON strings with a TTL
type RedisDashboardCache struct {
	client redis.UniversalClient
}

// NewRedisDashboardCache wraps an existing Redis client
func NewRedisDashboardCache(client redis.UniversalClient) *RedisDashboardCache {
	return &RedisDashboardCache{client: client}
}

func dashboardKey(tenantID uuid.UUID) string {
	return dashboardKeyPrefix + tenantID.String()
}

// Get returns the cached snapshot; numbers come back as float64
func (c *RedisDashboardCache) Get(ctx context.Context, tenantID uuid.UUID) (analytics.Dashboard, bool, error) {
	raw, err := c.client.Get(ctx, dashboardKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}
	var d analytics.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("failed to decode dashboard cache: %w", err)
	}
	return d, true, nil
}

// Set stores the snapshot
func (c *RedisDashboardCache) Set(ctx context.Context, tenantID uuid.UUID, d analytics.Dashboard, ttl time.Duration) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey(tenantID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the tenant snapshot
func (c *RedisDashboardCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, dashboardKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}

var _ DashboardCache = (*RedisDashboardCache)(nil)

type dashboardEntry struct {
	value     analytics.Dashboard
	expiresAt time.Time
}

// InMemoryDashboardCache is the single-instance cache used when Redis is disabled
type InMemoryDashboardCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]dashboardEntry
	nowFunc   func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryDashboardCache creates the cache and starts a background sweep
func NewInMemoryDashboardCache() *InMemoryDashboardCache {
	c := &InMemoryDashboardCache{
		entries:  make(map[uuid.UUID]dashboardEntry),
		nowFunc:  time.Now,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get returns a copy of the snapshot while it is fresh
func (c *InMemoryDashboardCache) Get(_ context.Context, tenantID uuid.UUID) (analytics.Dashboard, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[tenantID]
	if !ok || c.nowFunc().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value.Clone(), true, nil
}

// Set stores a copy of the snapshot
func (c *InMemoryDashboardCache) Set(_ context.Context, tenantID uuid.UUID, d analytics.Dashboard, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = dashboardEntry{value: d.Clone(), expiresAt: c.nowFunc().Add(ttl)}
	return nil
}

// Invalidate drops the tenant snapshot
func (c *InMemoryDashboardCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	return nil
}

// Size returns the number of stored snapshots, expired ones included
func (c *InMemoryDashboardCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweep goroutine; safe to call more than once
func (c *InMemoryDashboardCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryDashboardCache) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(time.Minute)
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

func (c *InMemoryDashboardCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.nowFunc()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ DashboardCache = (*InMemoryDashboardCache)(nil)

// NewRedisClient opens and pings a Redis client from configuration
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewDashboardCache picks Redis when a client is available and falls back to memory
func NewDashboardCache(client redis.UniversalClient, log *zap.Logger) DashboardCache {
	if client != nil {
		log.Info("using Redis dashboard cache")
		return NewRedisDashboardCache(client)
	}
	log.Info("using in-memory dashboard cache")
	return NewInMemoryDashboardCache()
}
