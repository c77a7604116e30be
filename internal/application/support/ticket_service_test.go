package support

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/support"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTicket(t *testing.T, tenantID uuid.UUID) *support.Ticket {
	t.Helper()
	ticket, err := support.NewTicket(tenantID, support.TicketDetails{Subject: "Cannot log in", Priority: support.TicketPriorityHigh})
	require.NoError(t, err)
	ticket.ClearDomainEvents()
	return ticket
}

func TestTicketService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("urgent ticket gets a four hour SLA", func(t *testing.T) {
		repo := new(MockTicketRepository)
		publisher := &recordingPublisher{}
		svc := NewTicketService(repo, new(MockTicketResponseRepository), nil)
		svc.SetEventPublisher(publisher)
		repo.On("Save", ctx, mock.AnythingOfType("*support.Ticket")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.New(), CreateTicketRequest{Subject: "Outage", Priority: "URGENT"})
		require.NoError(t, err)
		assert.Equal(t, "OPEN", resp.Status)
		require.NotNil(t, resp.SLADeadline)
		assert.WithinDuration(t, resp.CreatedAt.Add(4*time.Hour), *resp.SLADeadline, time.Second)
		assert.False(t, resp.SLABreached)
		assert.Equal(t, []string{support.EventTypeTicketCreated}, publisher.types)
	})

	t.Run("defaults priority to MEDIUM", func(t *testing.T) {
		repo := new(MockTicketRepository)
		svc := NewTicketService(repo, new(MockTicketResponseRepository), nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.Nil, CreateTicketRequest{Subject: "Question"})
		require.NoError(t, err)
		assert.Equal(t, "MEDIUM", resp.Priority)
	})

	t.Run("blank subject", func(t *testing.T) {
		svc := NewTicketService(new(MockTicketRepository), new(MockTicketResponseRepository), nil)
		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreateTicketRequest{Subject: "  "})
		assert.Error(t, err)
	})
}

func TestTicketService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	ticket := newTestTicket(t, tenantID)
	repo := new(MockTicketRepository)
	publisher := &recordingPublisher{}
	svc := NewTicketService(repo, new(MockTicketResponseRepository), nil)
	svc.SetEventPublisher(publisher)

	repo.On("FindByIDForTenant", ctx, tenantID, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)

	t.Run("resolving stamps resolution time", func(t *testing.T) {
		resp, err := svc.UpdateStatus(ctx, tenantID, ticket.ID, "RESOLVED")
		require.NoError(t, err)
		assert.NotNil(t, resp.ResolvedAt)
		require.NotNil(t, resp.ResolutionTimeMinutes)
		assert.Equal(t, []string{support.EventTypeTicketStatusChanged}, publisher.types)
	})

	t.Run("reopening clears resolution", func(t *testing.T) {
		resp, err := svc.UpdateStatus(ctx, tenantID, ticket.ID, "IN_PROGRESS")
		require.NoError(t, err)
		assert.Nil(t, resp.ResolvedAt)
		assert.Nil(t, resp.ResolutionTimeMinutes)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, tenantID, ticket.ID, "DONE")
		assert.Error(t, err)
	})
}

func TestTicketService_AddResponse(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("first agent response stamps ticket once", func(t *testing.T) {
		ticket := newTestTicket(t, tenantID)
		tickets := new(MockTicketRepository)
		responses := new(MockTicketResponseRepository)
		svc := NewTicketService(tickets, responses, nil)

		tickets.On("FindByIDForTenant", ctx, tenantID, ticket.ID).Return(ticket, nil)
		tickets.On("Save", ctx, ticket).Return(nil).Once()
		responses.On("Save", ctx, mock.AnythingOfType("*support.TicketResponse")).Return(nil)

		_, err := svc.AddResponse(ctx, tenantID, ticket.ID, AddResponseRequest{Message: "Looking into it"})
		require.NoError(t, err)
		require.NotNil(t, ticket.FirstResponseAt)
		first := *ticket.FirstResponseAt

		_, err = svc.AddResponse(ctx, tenantID, ticket.ID, AddResponseRequest{Message: "Fixed"})
		require.NoError(t, err)
		assert.Equal(t, first, *ticket.FirstResponseAt)
		tickets.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("customer response does not stamp", func(t *testing.T) {
		ticket := newTestTicket(t, tenantID)
		tickets := new(MockTicketRepository)
		responses := new(MockTicketResponseRepository)
		svc := NewTicketService(tickets, responses, nil)

		tickets.On("FindByIDForTenant", ctx, tenantID, ticket.ID).Return(ticket, nil)
		responses.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.AddResponse(ctx, tenantID, ticket.ID, AddResponseRequest{Message: "Still broken", ResponderType: "customer"})
		require.NoError(t, err)
		assert.Equal(t, "CUSTOMER", resp.ResponderType)
		assert.Nil(t, ticket.FirstResponseAt)
		tickets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		tickets := new(MockTicketRepository)
		svc := NewTicketService(tickets, new(MockTicketResponseRepository), nil)
		id := uuid.New()
		tickets.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.AddResponse(ctx, tenantID, id, AddResponseRequest{Message: "hi"})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestTicketService_ListByPriority(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockTicketRepository)
	svc := NewTicketService(repo, new(MockTicketResponseRepository), nil)

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters["priority"] == "URGENT" })
	repo.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]support.Ticket{}, nil)
	repo.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(0), nil)

	items, err := svc.ListByPriority(ctx, tenantID, "urgent")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTicketService_Counters(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockTicketRepository)
	svc := NewTicketService(repo, new(MockTicketResponseRepository), nil)

	repo.On("CountForTenant", ctx, tenantID, shared.Filter{}).Return(int64(9), nil)
	repo.On("CountByStatus", ctx, tenantID, support.TicketStatusOpen).Return(int64(4), nil)

	total, err := svc.CountTickets(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), total)

	open, err := svc.CountOpenTickets(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), open)
}

func TestTicketService_Assign(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	ticket := newTestTicket(t, tenantID)
	repo := new(MockTicketRepository)
	svc := NewTicketService(repo, new(MockTicketResponseRepository), nil)

	_, err := svc.Assign(ctx, tenantID, ticket.ID, uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	agent := uuid.New()
	repo.On("FindByIDForTenant", ctx, tenantID, ticket.ID).Return(ticket, nil)
	repo.On("Save", ctx, ticket).Return(nil)
	resp, err := svc.Assign(ctx, tenantID, ticket.ID, agent)
	require.NoError(t, err)
	assert.Equal(t, &agent, resp.AssignedTo)
}
