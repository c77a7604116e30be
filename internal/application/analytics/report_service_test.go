package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestReport(t *testing.T, tenant uuid.UUID, reportType analytics.ReportType) *analytics.Report {
	t.Helper()
	r, err := analytics.NewReport(tenant, "Quarterly", reportType, "Q1 numbers", "alice")
	require.NoError(t, err)
	return r
}

func TestReportService_CRUD(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()

	t.Run("create", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, nil, nil, nil, nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*analytics.Report")).Return(nil)

		resp, err := svc.Create(ctx, tenant, "alice", CreateReportRequest{Name: "Pipeline", Type: "SALES"})
		require.NoError(t, err)
		assert.Equal(t, "SALES", resp.Type)
		assert.Equal(t, "alice", resp.CreatedBy)
		assert.Empty(t, resp.Data)
	})

	t.Run("create rejects blank name", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, nil, nil, nil, nil, nil)

		_, err := svc.Create(ctx, tenant, "alice", CreateReportRequest{Name: "  ", Type: "SALES"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("list by type", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, nil, nil, nil, nil, nil)
		repo.On("FindByType", ctx, tenant, analytics.ReportTypeTickets).
			Return([]analytics.Report{*newTestReport(t, tenant, analytics.ReportTypeTickets)}, nil)

		list, err := svc.ListByType(ctx, tenant, "tickets")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = svc.ListByType(ctx, tenant, "weather")
		assert.Error(t, err)
	})

	t.Run("update", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, nil, nil, nil, nil, nil)
		report := newTestReport(t, tenant, analytics.ReportTypeSales)
		repo.On("FindByIDForTenant", ctx, tenant, report.ID).Return(report, nil)
		repo.On("Save", ctx, report).Return(nil)

		resp, err := svc.Update(ctx, tenant, report.ID, UpdateReportRequest{Name: "Leads", Type: "LEADS"})
		require.NoError(t, err)
		assert.Equal(t, "LEADS", resp.Type)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, nil, nil, nil, nil, nil)
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenant, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(ctx, tenant, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()
	c := newStubCounters()
	dashboard := NewDashboardService(c, c, c, c, nil, 0, nil)
	repo := new(MockReportRepository)
	svc := NewReportService(repo, dashboard, nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC) }

	report := newTestReport(t, tenant, analytics.ReportTypeTickets)
	repo.On("FindByIDForTenant", ctx, tenant, report.ID).Return(report, nil)
	repo.On("Save", ctx, report).Return(nil)

	resp, err := svc.Generate(ctx, tenant, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01T08:00:00Z", resp.Data["generatedAt"])
	assert.EqualValues(t, 4, resp.Data[analytics.SectionTotalTickets])
	assert.EqualValues(t, 1, resp.Data[analytics.SectionOpenTickets])
	assert.NotContains(t, resp.Data, analytics.SectionTotalDeals)
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()

	t.Run("unavailable without storage", func(t *testing.T) {
		svc := NewReportService(new(MockReportRepository), nil, printing.NewReportTemplate(), new(MockPDFRenderer), nil, nil)
		_, err := svc.Export(ctx, tenant, uuid.New())
		assert.ErrorIs(t, err, ErrExportUnavailable)
	})

	t.Run("renders uploads and presigns", func(t *testing.T) {
		repo := new(MockReportRepository)
		pdf := new(MockPDFRenderer)
		store := new(MockObjectStorage)
		svc := NewReportService(repo, nil, printing.NewReportTemplate(), pdf, store, nil)
		at := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return at }

		report := newTestReport(t, tenant, analytics.ReportTypeSales)
		require.NoError(t, report.SetData(map[string]any{"totalDeals": 5}))
		key := "reports/" + tenant.String() + "/" + report.ID.String() + "-20240401T080000Z.pdf"

		repo.On("FindByIDForTenant", ctx, tenant, report.ID).Return(report, nil)
		pdf.On("Render", ctx, mock.MatchedBy(func(req *printing.RenderRequest) bool {
			return req.Title == "Quarterly" && len(req.HTML) > 0
		})).Return(&printing.RenderResult{PDFData: []byte("%PDF-1.4"), PageCount: 1}, nil)
		store.On("Upload", ctx, key, []byte("%PDF-1.4"), "application/pdf").Return(nil)
		store.On("GenerateDownloadURL", ctx, key, time.Duration(0)).Return("https://files/x.pdf", at.Add(15*time.Minute), nil)
		repo.On("Save", ctx, report).Return(nil)

		resp, err := svc.Export(ctx, tenant, report.ID)
		require.NoError(t, err)
		assert.Equal(t, key, resp.Key)
		assert.Equal(t, "https://files/x.pdf", resp.URL)
		assert.Equal(t, 8, resp.Bytes)
		assert.Equal(t, key, report.ExportKey)
		require.NotNil(t, report.ExportedAt)
	})

	t.Run("render failure is returned", func(t *testing.T) {
		repo := new(MockReportRepository)
		pdf := new(MockPDFRenderer)
		store := new(MockObjectStorage)
		svc := NewReportService(repo, nil, printing.NewReportTemplate(), pdf, store, nil)
		report := newTestReport(t, tenant, analytics.ReportTypeSales)
		repo.On("FindByIDForTenant", ctx, tenant, report.ID).Return(report, nil)
		pdf.On("Render", ctx, mock.Anything).Return(nil, errors.New("chrome crashed"))

		_, err := svc.Export(ctx, tenant, report.ID)
		assert.Error(t, err)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
