package cache

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryDashboardCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewInMemoryDashboardCache()
	defer c.Close()
	c.nowFunc = func() time.Time { return now }

	tenant := uuid.New()

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok, err := c.Get(ctx, tenant)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hit returns a copy", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, tenant, analytics.Dashboard{analytics.SectionTotalLeads: int64(4)}, time.Minute))
		d, ok, err := c.Get(ctx, tenant)
		require.NoError(t, err)
		require.True(t, ok)
		d[analytics.SectionTotalLeads] = int64(99)

		again, _, _ := c.Get(ctx, tenant)
		n, _ := again.Int(analytics.SectionTotalLeads)
		assert.Equal(t, int64(4), n)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		_, ok, err := c.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		_, ok, err := c.Get(ctx, tenant)
		require.NoError(t, err)
		assert.False(t, ok)

		c.cleanup()
		assert.Equal(t, 0, c.Size())
	})

	t.Run("zero ttl is not stored", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, tenant, analytics.Dashboard{}, 0))
		assert.Equal(t, 0, c.Size())
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, tenant, analytics.Dashboard{}, time.Minute))
		require.NoError(t, c.Invalidate(ctx, tenant))
		_, ok, _ := c.Get(ctx, tenant)
		assert.False(t, ok)
	})

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNewDashboardCache(t *testing.T) {
	mem := NewDashboardCache(nil, zap.NewNop())
	assert.IsType(t, &InMemoryDashboardCache{}, mem)
	_ = mem.(*InMemoryDashboardCache).Close()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	assert.IsType(t, &RedisDashboardCache{}, NewDashboardCache(client, zap.NewNop()))
}

func TestRedisDashboardCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	defer client.Close()
	c := NewRedisDashboardCache(client)

	_, ok, err := c.Get(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(context.Background(), uuid.New(), analytics.Dashboard{}, time.Minute))
}

func TestDashboardKey(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	assert.Equal(t, "crm:dashboard:00000000-0000-0000-0000-000000000001", dashboardKey(id))
}
