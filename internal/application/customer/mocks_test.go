package customer

import (
	"context"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SearchByName(ctx context.Context, tenantID uuid.UUID, name string) ([]customer.Customer, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status customer.CustomerStatus) ([]customer.Customer, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, email, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Lead, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]customer.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status customer.LeadStatus) ([]customer.Lead, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).([]customer.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]customer.Lead, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]customer.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindHighScore(ctx context.Context, tenantID uuid.UUID, minScore int) ([]customer.Lead, error) {
	args := m.Called(ctx, tenantID, minScore)
	return args.Get(0).([]customer.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *customer.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockLeadRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockLeadHistoryRepository struct {
	mock.Mock
}

func (m *MockLeadHistoryRepository) Save(ctx context.Context, entries ...*customer.LeadHistory) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLeadHistoryRepository) FindByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]customer.LeadHistory, error) {
	args := m.Called(ctx, tenantID, leadID)
	return args.Get(0).([]customer.LeadHistory), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]customer.Activity, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]customer.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]customer.Activity, error) {
	args := m.Called(ctx, tenantID, leadID)
	return args.Get(0).([]customer.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Activity, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Activity), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, a *customer.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]customer.Note, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]customer.Note), args.Error(1)
}

func (m *MockNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Note, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Note), args.Error(1)
}

func (m *MockNoteRepository) Save(ctx context.Context, n *customer.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
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
