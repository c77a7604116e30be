package analytics

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/printing"
	"github.com/crm/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrExportUnavailable is returned when PDF export has no storage or renderer
var ErrExportUnavailable = shared.NewDomainError("SERVICE_UNAVAILABLE", "Report export is not configured")

// ObjectStorage is the subset of the object store used for exports
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// HTMLRenderer turns a report into a printable HTML document
type HTMLRenderer interface {
	Render(report *analytics.Report) (string, error)
}

// reportSections lists the dashboard sections each report type carries
var reportSections = map[analytics.ReportType][]string{
	analytics.ReportTypeSales: {
		analytics.SectionTotalCustomers,
		analytics.SectionTotalDeals,
		analytics.SectionClosedWonDeals,
		analytics.SectionPipelineValue,
	},
	analytics.ReportTypeLeads: {
		analytics.SectionTotalLeads,
		analytics.SectionTotalCustomers,
	},
	analytics.ReportTypeTickets: {
		analytics.SectionTotalTickets,
		analytics.SectionOpenTickets,
	},
	analytics.ReportTypeCampaigns: {
		analytics.SectionTotalLeads,
		analytics.SectionTotalCustomers,
	},
}

// ReportService manages saved reports and their PDF exports
type ReportService struct {
	repo      analytics.ReportRepository
	dashboard *DashboardService
	html      HTMLRenderer
	pdf       printing.PDFRenderer
	storage   ObjectStorage
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService creates a report service. Export needs both pdf and
// objectStorage; either may be nil when export is disabled.
func NewReportService(
	repo analytics.ReportRepository,
	dashboard *DashboardService,
	html HTMLRenderer,
	pdf printing.PDFRenderer,
	objectStorage ObjectStorage,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:      repo,
		dashboard: dashboard,
		html:      html,
		pdf:       pdf,
		storage:   objectStorage,
		logger:    logger,
		now:       time.Now,
	}
}

// Create saves a new report with empty data
func (s *ReportService) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req CreateReportRequest) (*ReportResponse, error) {
	report, err := analytics.NewReport(tenantID, req.Name, analytics.ReportType(req.Type), req.Description, createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	response := ToReportResponse(report)
	return &response, nil
}

// GetByID returns a report of the tenant
func (s *ReportService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReportResponse, error) {
	report, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToReportResponse(report)
	return &response, nil
}

// List returns every report of the tenant, newest first
func (s *ReportService) List(ctx context.Context, tenantID uuid.UUID) ([]ReportResponse, error) {
	reports, err := s.repo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToReportResponses(reports), nil
}

// ListByType returns the reports of one type
func (s *ReportService) ListByType(ctx context.Context, tenantID uuid.UUID, reportType string) ([]ReportResponse, error) {
	t, err := analytics.ParseReportType(reportType)
	if err != nil {
		return nil, err
	}
	reports, err := s.repo.FindByType(ctx, tenantID, t)
	if err != nil {
		return nil, err
	}
	return ToReportResponses(reports), nil
}

// Update replaces name, type and description
func (s *ReportService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateReportRequest) (*ReportResponse, error) {
	report, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := report.Update(req.Name, analytics.ReportType(req.Type), req.Description); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	response := ToReportResponse(report)
	return &response, nil
}

// Delete removes a report
func (s *ReportService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

// Generate fills the report data from the current dashboard snapshot
func (s *ReportService) Generate(ctx context.Context, tenantID, id uuid.UUID) (*ReportResponse, error) {
	report, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dashboard, err := s.dashboard.Dashboard(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	data := map[string]any{"generatedAt": s.now().UTC().Format(time.RFC3339)}
	for _, key := range reportSections[report.Type] {
		data[key] = dashboard[key]
	}
	if err := report.SetData(data); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info("Report generated",
		zap.String("report_id", id.String()),
		zap.String("type", string(report.Type)))
	response := ToReportResponse(report)
	return &response, nil
}

// Export renders the report to PDF, uploads it and returns a download link
func (s *ReportService) Export(ctx context.Context, tenantID, id uuid.UUID) (*ExportResponse, error) {
	if s.storage == nil || s.pdf == nil || s.html == nil {
		return nil, ErrExportUnavailable
	}
	report, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	doc, err := s.html.Render(report)
	if err != nil {
		return nil, err
	}
	result, err := s.pdf.Render(ctx, &printing.RenderRequest{
		HTML:       doc,
		Title:      report.Name,
		FooterHTML: report.Name,
	})
	if err != nil {
		s.logger.Error("Report PDF rendering failed", zap.String("report_id", id.String()), zap.Error(err))
		return nil, err
	}

	at := s.now()
	key := storage.ReportExportKey(tenantID, report.ID, at)
	if err := s.storage.Upload(ctx, key, result.PDFData, "application/pdf"); err != nil {
		s.logger.Error("Report upload failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}

	report.MarkExported(key, at)
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info("Report exported",
		zap.String("report_id", id.String()),
		zap.String("key", key),
		zap.Int("pages", result.PageCount))
	return &ExportResponse{
		ReportID:  report.ID,
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		Pages:     result.PageCount,
		Bytes:     len(result.PDFData),
	}, nil
}
