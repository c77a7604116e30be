package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAggregate struct {
	TenantAggregateRoot
}

type recordingPublisher struct {
	events []DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func newTestAggregate() *testAggregate {
	a := &testAggregate{TenantAggregateRoot: NewTenantAggregateRoot(DefaultTenantID)}
	ev := NewBaseDomainEvent("ThingCreated", "Thing", a.ID, a.TenantID)
	a.AddDomainEvent(&ev)
	return a
}

func TestTenantAggregateRoot(t *testing.T) {
	a := newTestAggregate()
	assert.NotEqual(t, uuid.Nil, a.GetID())
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, DefaultTenantID, a.TenantID)

	t.Run("touch bumps version and update time", func(t *testing.T) {
		before := a.UpdatedAt
		time.Sleep(time.Millisecond)
		a.Touch()
		assert.Equal(t, 2, a.Version)
		assert.True(t, a.UpdatedAt.After(before))
	})

	t.Run("system actions leave no creator", func(t *testing.T) {
		a.SetCreatedBy(uuid.Nil)
		assert.Nil(t, a.CreatedBy)

		user := uuid.New()
		a.SetCreatedBy(user)
		require.NotNil(t, a.CreatedBy)
		assert.Equal(t, user, *a.CreatedBy)
	})
}

func TestPublishAndClear(t *testing.T) {
	t.Run("publishes in order and clears", func(t *testing.T) {
		a := newTestAggregate()
		second := NewBaseDomainEvent("ThingUpdated", "Thing", a.ID, a.TenantID)
		a.AddDomainEvent(&second)

		pub := &recordingPublisher{}
		require.NoError(t, PublishAndClear(context.Background(), pub, a))
		require.Len(t, pub.events, 2)
		assert.Equal(t, "ThingCreated", pub.events[0].EventType())
		assert.Equal(t, "ThingUpdated", pub.events[1].EventType())
		assert.Empty(t, a.GetDomainEvents())
	})

	t.Run("nil publisher only clears", func(t *testing.T) {
		a := newTestAggregate()
		require.NoError(t, PublishAndClear(context.Background(), nil, a))
		assert.Empty(t, a.GetDomainEvents())
	})

	t.Run("events are cleared even when publishing fails", func(t *testing.T) {
		a := newTestAggregate()
		err := PublishAndClear(context.Background(), &recordingPublisher{err: errors.New("bus down")}, a)
		assert.Error(t, err)
		assert.Empty(t, a.GetDomainEvents())
	})
}

func TestFilterOffset(t *testing.T) {
	assert.Equal(t, 0, DefaultFilter().Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 2}.Offset())
}
