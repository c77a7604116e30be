package sales

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Deal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Deal), args.Error(1)
}

func (m *MockDealRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Deal, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStage(ctx context.Context, tenantID uuid.UUID, stage sales.DealStage) ([]sales.Deal, error) {
	args := m.Called(ctx, tenantID, stage)
	return args.Get(0).([]sales.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]sales.Deal, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]sales.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]sales.Deal, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]sales.Deal), args.Error(1)
}

func (m *MockDealRepository) SearchByTitle(ctx context.Context, tenantID uuid.UUID, query string) ([]sales.Deal, error) {
	args := m.Called(ctx, tenantID, query)
	return args.Get(0).([]sales.Deal), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, deal *sales.Deal) error {
	return m.Called(ctx, deal).Error(0)
}

func (m *MockDealRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockDealRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountByStage(ctx context.Context, tenantID uuid.UUID, stage sales.DealStage) (int64, error) {
	args := m.Called(ctx, tenantID, stage)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) PipelineSummary(ctx context.Context, tenantID uuid.UUID) ([]sales.StageSummary, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]sales.StageSummary), args.Error(1)
}

type MockFollowupRepository struct {
	mock.Mock
}

func (m *MockFollowupRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Followup, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Followup), args.Error(1)
}

func (m *MockFollowupRepository) FindByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]sales.Followup, error) {
	args := m.Called(ctx, tenantID, dealID)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *MockFollowupRepository) FindPending(ctx context.Context, tenantID uuid.UUID) ([]sales.Followup, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *MockFollowupRepository) FindPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]sales.Followup, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *MockFollowupRepository) FindDueForReminder(ctx context.Context, at time.Time, limit int) ([]sales.Followup, error) {
	args := m.Called(ctx, at, limit)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *MockFollowupRepository) Save(ctx context.Context, f *sales.Followup) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFollowupRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Opportunity, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Opportunity, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status sales.OpportunityStatus) ([]sales.Opportunity, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).([]sales.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]sales.Opportunity, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]sales.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindHighProbability(ctx context.Context, tenantID uuid.UUID, min int) ([]sales.Opportunity, error) {
	args := m.Called(ctx, tenantID, min)
	return args.Get(0).([]sales.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Save(ctx context.Context, o *sales.Opportunity) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOpportunityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockOpportunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockCustomerDirectory struct {
	mock.Mock
}

func (m *MockCustomerDirectory) Exists(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher keeps every published event type in order
type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}
