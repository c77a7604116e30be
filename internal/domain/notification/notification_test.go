package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	t.Run("in-app by default and sent", func(t *testing.T) {
		n, err := NewNotification(uuid.New(), Details{Title: "Hi", Message: "there"})
		require.NoError(t, err)
		assert.Equal(t, TypeInApp, n.Type)
		assert.Equal(t, StatusSent, n.Status)
		assert.NotNil(t, n.SentAt)
		assert.True(t, n.IsUnread())
	})

	t.Run("email requires recipient", func(t *testing.T) {
		_, err := NewNotification(uuid.New(), Details{Type: TypeEmail, Message: "x"})
		assert.Error(t, err)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := NewNotification(uuid.New(), Details{})
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewNotification(uuid.New(), Details{Type: "FAX", Message: "x"})
		assert.Error(t, err)
	})
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := NewNotification(uuid.New(), Details{Message: "x"})
	require.NoError(t, err)

	first := time.Now()
	n.MarkRead(first)
	n.MarkRead(first.Add(time.Minute))
	assert.Equal(t, StatusRead, n.Status)
	assert.Equal(t, first, *n.ReadAt)
	assert.False(t, n.IsUnread())

	n.MarkFailed()
	assert.Equal(t, StatusFailed, n.Status)
}
