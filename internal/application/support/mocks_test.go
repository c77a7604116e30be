package support

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/support"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*support.Ticket, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]support.Ticket, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]support.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, t *support.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockTicketRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status support.TicketStatus) (int64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockTicketResponseRepository struct {
	mock.Mock
}

func (m *MockTicketResponseRepository) Save(ctx context.Context, r *support.TicketResponse) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockTicketResponseRepository) FindByTicket(ctx context.Context, tenantID, ticketID uuid.UUID) ([]support.TicketResponse, error) {
	args := m.Called(ctx, tenantID, ticketID)
	return args.Get(0).([]support.TicketResponse), args.Error(1)
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}
