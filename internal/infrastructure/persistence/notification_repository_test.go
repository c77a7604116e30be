package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	for _, title := range []string{"Deal won", "Ticket assigned", "Lead converted"} {
		n, err := notification.NewNotification(tenantID, notification.Details{Title: title, RecipientUserID: &userID})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, n))
	}
	other, err := notification.NewNotification(tenantID, notification.Details{Title: "For someone else", RecipientUserID: ptrUUID(uuid.New())})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	unread, err := repo.CountUnread(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	limited, err := repo.FindByUser(ctx, tenantID, userID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	updated, err := repo.MarkAllRead(ctx, tenantID, userID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	list, err := repo.FindUnread(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := repo.FindByUser(ctx, tenantID, userID, 0)
	require.NoError(t, err)
	for _, n := range all {
		assert.Equal(t, notification.StatusRead, n.Status)
		assert.NotNil(t, n.ReadAt)
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
