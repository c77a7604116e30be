package handler

import (
	analyticsapp "github.com/crm/backend/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// DashboardData is the tenant dashboard. Each value is a number, or the
// string "unavailable" when its source could not be read.
// @Description Dashboard sections keyed by name
type DashboardData map[string]any

// AnalyticsHandler serves the dashboard and saved reports
type AnalyticsHandler struct {
	BaseHandler
	dashboardService *analyticsapp.DashboardService
	reportService    *analyticsapp.ReportService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(dashboardService *analyticsapp.DashboardService, reportService *analyticsapp.ReportService) *AnalyticsHandler {
	return &AnalyticsHandler{dashboardService: dashboardService, reportService: reportService}
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Tenant dashboard counters
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[DashboardData]
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DashboardData(dashboard))
}

// InvalidateDashboard godoc
// @ID           invalidateDashboard
// @Summary      Drop the cached dashboard of the tenant
// @Tags         analytics
// @Success      204
// @Security     BearerAuth
// @Router       /analytics/dashboard/cache [delete]
func (h *AnalyticsHandler) InvalidateDashboard(c *gin.Context) {
	if err := h.dashboardService.Invalidate(c.Request.Context(), getTenantID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateReport godoc
// @ID           createReport
// @Summary      Save a report definition
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body analyticsapp.CreateReportRequest true "Report"
// @Success      201 {object} APIResponse[analyticsapp.ReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports [post]
func (h *AnalyticsHandler) CreateReport(c *gin.Context) {
	var req analyticsapp.CreateReportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.reportService.Create(c.Request.Context(), getTenantID(c), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetReport godoc
// @ID           getReport
// @Summary      Get a report
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} APIResponse[analyticsapp.ReportResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{id} [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reportService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListReports godoc
// @ID           listReports
// @Summary      List reports, optionally of one type
// @Tags         reports
// @Produce      json
// @Param        type query string false "Type" Enums(SALES, LEADS, TICKETS, CAMPAIGNS)
// @Success      200 {object} APIResponse[[]analyticsapp.ReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports [get]
func (h *AnalyticsHandler) ListReports(c *gin.Context) {
	var (
		reports []analyticsapp.ReportResponse
		err     error
	)
	if reportType := c.Query("type"); reportType != "" {
		reports, err = h.reportService.ListByType(c.Request.Context(), getTenantID(c), reportType)
	} else {
		reports, err = h.reportService.List(c.Request.Context(), getTenantID(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// UpdateReport godoc
// @ID           updateReport
// @Summary      Update a report definition
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body analyticsapp.UpdateReportRequest true "Report"
// @Success      200 {object} APIResponse[analyticsapp.ReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{id} [put]
func (h *AnalyticsHandler) UpdateReport(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req analyticsapp.UpdateReportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.reportService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteReport godoc
// @ID           deleteReport
// @Summary      Delete a report
// @Tags         reports
// @Param        id path string true "Report ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{id} [delete]
func (h *AnalyticsHandler) DeleteReport(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reportService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GenerateReport godoc
// @ID           generateReport
// @Summary      Fill a report with current dashboard figures
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} APIResponse[analyticsapp.ReportResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{id}/generate [post]
func (h *AnalyticsHandler) GenerateReport(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reportService.Generate(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ExportReport godoc
// @ID           exportReport
// @Summary      Export a report as PDF
// @Description  Uploads the PDF to object storage and returns a presigned download URL
// @Tags         reports
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} APIResponse[analyticsapp.ExportResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/{id}/export [post]
func (h *AnalyticsHandler) ExportReport(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reportService.Export(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
