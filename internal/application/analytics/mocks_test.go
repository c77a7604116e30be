package analytics

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type stubCounters struct {
	customers, leads, deals, won, tickets, open int64
	pipeline                                    float64
	failLeads                                   error
	failTickets                                 error
	calls                                       int
}

func (s *stubCounters) CountCustomers(context.Context, uuid.UUID) (int64, error) {
	return s.customers, nil
}

func (s *stubCounters) CountLeads(context.Context, uuid.UUID) (int64, error) {
	return s.leads, s.failLeads
}

func (s *stubCounters) CountDeals(context.Context, uuid.UUID) (int64, error) {
	s.calls++
	return s.deals, nil
}

func (s *stubCounters) CountClosedWonDeals(context.Context, uuid.UUID) (int64, error) {
	return s.won, nil
}

func (s *stubCounters) OpenPipelineValue(context.Context, uuid.UUID) (float64, error) {
	return s.pipeline, nil
}

func (s *stubCounters) CountTickets(context.Context, uuid.UUID) (int64, error) {
	return s.tickets, s.failTickets
}

func (s *stubCounters) CountOpenTickets(context.Context, uuid.UUID) (int64, error) {
	return s.open, s.failTickets
}

// MockReportRepository is a mock implementation of analytics.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.Report, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Report), args.Error(1)
}

func (m *MockReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]analytics.Report, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Report), args.Error(1)
}

func (m *MockReportRepository) FindByType(ctx context.Context, tenantID uuid.UUID, reportType analytics.ReportType) ([]analytics.Report, error) {
	args := m.Called(ctx, tenantID, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Report), args.Error(1)
}

func (m *MockReportRepository) Save(ctx context.Context, report *analytics.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockPDFRenderer is a mock implementation of printing.PDFRenderer
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return nil
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
