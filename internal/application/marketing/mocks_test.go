package marketing

import (
	"context"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.Campaign, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]marketing.Campaign, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]marketing.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) Save(ctx context.Context, c *marketing.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.EmailTemplate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]marketing.EmailTemplate, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]marketing.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]marketing.EmailTemplate, error) {
	args := m.Called(ctx, tenantID, category)
	return args.Get(0).([]marketing.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, t *marketing.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockSegmentRepository struct {
	mock.Mock
}

func (m *MockSegmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.Segment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.Segment), args.Error(1)
}

func (m *MockSegmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]marketing.Segment, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]marketing.Segment), args.Error(1)
}

func (m *MockSegmentRepository) Save(ctx context.Context, s *marketing.Segment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSegmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockCustomerLister struct {
	mock.Mock
}

func (m *MockCustomerLister) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
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
