package customer

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("logs a call against a customer", func(t *testing.T) {
		activities := new(MockActivityRepository)
		customers := new(MockCustomerRepository)
		svc := NewActivityService(activities, customers, new(MockLeadRepository))
		c := newTestCustomer(t, tenantID)
		start := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

		customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		activities.On("Save", ctx, mock.AnythingOfType("*customer.Activity")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, "alice", CreateActivityRequest{
			Type: "call", CustomerID: &c.ID, DurationSeconds: 120, Direction: "OUTBOUND", StartTime: &start,
		})
		require.NoError(t, err)
		assert.Equal(t, "CALL", resp.Type)
		assert.Equal(t, "alice", resp.PerformedBy)
		assert.Equal(t, start, resp.StartTime)
	})

	t.Run("needs a customer or lead", func(t *testing.T) {
		svc := NewActivityService(new(MockActivityRepository), new(MockCustomerRepository), new(MockLeadRepository))
		_, err := svc.Create(ctx, tenantID, "alice", CreateActivityRequest{Type: "TASK"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACTIVITY", domainErr.Code)
	})

	t.Run("unknown lead", func(t *testing.T) {
		leads := new(MockLeadRepository)
		svc := NewActivityService(new(MockActivityRepository), new(MockCustomerRepository), leads)
		id := uuid.New()
		leads.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, "alice", CreateActivityRequest{Type: "EMAIL", LeadID: &id})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestNoteService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create and update", func(t *testing.T) {
		notes := new(MockNoteRepository)
		customers := new(MockCustomerRepository)
		svc := NewNoteService(notes, customers)
		c := newTestCustomer(t, tenantID)

		customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		notes.On("Save", ctx, mock.AnythingOfType("*customer.Note")).Return(nil)

		created, err := svc.Create(ctx, tenantID, "alice", CreateNoteRequest{CustomerID: c.ID, Content: "  prefers email  "})
		require.NoError(t, err)
		assert.Equal(t, "prefers email", created.Content)
		assert.Equal(t, "alice", created.CreatedBy)

		note := &customer.Note{BaseEntity: shared.NewBaseEntity(), TenantID: tenantID, CustomerID: c.ID, Content: "old"}
		notes.On("FindByIDForTenant", ctx, tenantID, note.ID).Return(note, nil)
		updated, err := svc.Update(ctx, tenantID, note.ID, UpdateNoteRequest{Content: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Content)
	})

	t.Run("delete missing note", func(t *testing.T) {
		notes := new(MockNoteRepository)
		svc := NewNoteService(notes, new(MockCustomerRepository))
		id := uuid.New()
		notes.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		err := svc.Delete(ctx, tenantID, id)
		assert.True(t, shared.IsNotFound(err))
		notes.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}
