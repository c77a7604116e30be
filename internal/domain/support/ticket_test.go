package support

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicket(t *testing.T) {
	t.Run("defaults and SLA", func(t *testing.T) {
		tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "Cannot log in", Priority: "urgent"})
		require.NoError(t, err)
		assert.Equal(t, TicketStatusOpen, tk.Status)
		assert.Equal(t, TicketPriorityUrgent, tk.Priority)
		require.NotNil(t, tk.SLADeadline)
		assert.Equal(t, tk.CreatedAt.Add(4*time.Hour), *tk.SLADeadline)
	})

	t.Run("medium by default", func(t *testing.T) {
		tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "Question"})
		require.NoError(t, err)
		assert.Equal(t, TicketPriorityMedium, tk.Priority)
		assert.Equal(t, tk.CreatedAt.Add(24*time.Hour), *tk.SLADeadline)
	})

	t.Run("explicit deadline wins", func(t *testing.T) {
		deadline := time.Now().Add(time.Hour)
		tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "x", SLADeadline: &deadline})
		require.NoError(t, err)
		assert.Equal(t, deadline, *tk.SLADeadline)
	})

	t.Run("requires subject", func(t *testing.T) {
		_, err := NewTicket(uuid.New(), TicketDetails{Subject: " "})
		assert.Error(t, err)
	})
}

func TestTicket_UpdateSLA(t *testing.T) {
	t.Run("priority change restarts the window", func(t *testing.T) {
		tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "Slow page", Priority: "low"})
		require.NoError(t, err)
		assert.Equal(t, tk.CreatedAt.Add(72*time.Hour), *tk.SLADeadline)

		require.NoError(t, tk.Update(TicketDetails{Subject: "Slow page", Priority: "urgent"}))
		assert.Equal(t, tk.CreatedAt.Add(4*time.Hour), *tk.SLADeadline)
	})

	t.Run("same priority keeps the deadline", func(t *testing.T) {
		deadline := time.Now().Add(2 * time.Hour)
		tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "x", Priority: "high", SLADeadline: &deadline})
		require.NoError(t, err)

		require.NoError(t, tk.Update(TicketDetails{Subject: "y", Priority: "HIGH"}))
		assert.Equal(t, deadline, *tk.SLADeadline)
	})

	t.Run("explicit deadline wins", func(t *testing.T) {
		tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "x"})
		require.NoError(t, err)
		deadline := time.Now().Add(time.Hour)

		require.NoError(t, tk.Update(TicketDetails{Subject: "x", Priority: "urgent", SLADeadline: &deadline}))
		assert.Equal(t, deadline, *tk.SLADeadline)
	})
}

func TestTicket_ChangeStatus(t *testing.T) {
	tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "Broken"})
	require.NoError(t, err)
	tk.ClearDomainEvents()

	require.NoError(t, tk.ChangeStatus(TicketStatusResolved))
	require.NotNil(t, tk.ResolvedAt)
	require.NotNil(t, tk.ResolutionTimeMinutes)
	resolvedAt := *tk.ResolvedAt

	require.NoError(t, tk.ChangeStatus(TicketStatusClosed))
	assert.Equal(t, resolvedAt, *tk.ResolvedAt, "closing keeps the first resolution time")

	require.NoError(t, tk.ChangeStatus(TicketStatusOpen))
	assert.Nil(t, tk.ResolvedAt)
	assert.Len(t, tk.GetDomainEvents(), 3)

	assert.Error(t, tk.ChangeStatus("LOST"))
}

func TestTicket_RecordResponse(t *testing.T) {
	tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "Help"})
	require.NoError(t, err)

	tk.RecordResponse(ResponderTypeCustomer, time.Now())
	assert.Nil(t, tk.FirstResponseAt)

	first := time.Now()
	tk.RecordResponse(ResponderTypeAgent, first)
	tk.RecordResponse(ResponderTypeAgent, first.Add(time.Hour))
	assert.Equal(t, first, *tk.FirstResponseAt)
}

func TestTicket_IsSLABreached(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "Late", SLADeadline: &past})
	require.NoError(t, err)
	assert.True(t, tk.IsSLABreached(time.Now()))

	require.NoError(t, tk.ChangeStatus(TicketStatusResolved))
	assert.False(t, tk.IsSLABreached(time.Now()))
}

func TestTicketEvent_Payload(t *testing.T) {
	tk, err := NewTicket(uuid.New(), TicketDetails{Subject: "x", Priority: TicketPriorityHigh})
	require.NoError(t, err)
	p := NewTicketCreatedEvent(tk).Payload()
	assert.Equal(t, 3, p["priorityRank"])
	assert.Equal(t, "OPEN", p["status"])
}
