package handler

import (
	marketingapp "github.com/crm/backend/internal/application/marketing"
	"github.com/crm/backend/internal/domain/marketing"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaigns, email templates and segments
type CampaignHandler struct {
	BaseHandler
	campaignService *marketingapp.CampaignService
	templateService *marketingapp.TemplateService
	segmentService  *marketingapp.SegmentService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(
	campaignService *marketingapp.CampaignService,
	templateService *marketingapp.TemplateService,
	segmentService *marketingapp.SegmentService,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		templateService: templateService,
		segmentService:  segmentService,
	}
}

// Create godoc
// @ID           createCampaign
// @Summary      Create a campaign
// @Description  New campaigns start in DRAFT
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body marketingapp.CreateCampaignRequest true "Campaign"
// @Success      201 {object} APIResponse[marketingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	var req marketingapp.CreateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.campaignService.Create(c.Request.Context(), getTenantID(c), getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getCampaign
// @Summary      Get campaign by ID
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[marketingapp.CampaignResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.campaignService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listCampaigns
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Param        search query string false "Name fragment"
// @Param        status query string false "Status" Enums(DRAFT, SCHEDULED, ACTIVE, PAUSED, COMPLETED, CANCELLED)
// @Param        type query string false "Type" Enums(EMAIL, SMS, SOCIAL_MEDIA, WEBINAR)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]marketingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	var filter marketingapp.CampaignListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	campaigns, total, err := h.campaignService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, campaigns, total, filter.Page, filter.PageSize)
}

// ListByStatus godoc
// @ID           listCampaignsByStatus
// @Summary      Campaigns with a status
// @Tags         campaigns
// @Produce      json
// @Param        status path string true "Status"
// @Success      200 {object} APIResponse[[]marketingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/status/{status} [get]
func (h *CampaignHandler) ListByStatus(c *gin.Context) {
	campaigns, err := h.campaignService.ListByStatus(c.Request.Context(), getTenantID(c), c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaigns)
}

// Update godoc
// @ID           updateCampaign
// @Summary      Update a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body marketingapp.UpdateCampaignRequest true "Campaign"
// @Success      200 {object} APIResponse[marketingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [put]
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketingapp.UpdateCampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.campaignService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateCampaignStatus
// @Summary      Move a campaign through its lifecycle
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body marketingapp.UpdateCampaignStatusRequest true "Status"
// @Success      200 {object} APIResponse[marketingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id}/status [patch]
func (h *CampaignHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketingapp.UpdateCampaignStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.campaignService.UpdateStatus(c.Request.Context(), getTenantID(c), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordMetrics godoc
// @ID           recordCampaignMetrics
// @Summary      Add sent, opened and clicked counts
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body marketingapp.RecordMetricsRequest true "Counts"
// @Success      200 {object} APIResponse[marketingapp.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id}/metrics [post]
func (h *CampaignHandler) RecordMetrics(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketingapp.RecordMetricsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.campaignService.RecordMetrics(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCampaign
// @Summary      Delete a campaign
// @Tags         campaigns
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.campaignService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListTemplates godoc
// @ID           listEmailTemplates
// @Summary      Active email templates, optionally in one category
// @Tags         campaigns
// @Produce      json
// @Param        category query string false "Category"
// @Success      200 {object} APIResponse[[]marketingapp.TemplateResponse]
// @Security     BearerAuth
// @Router       /campaigns/templates [get]
func (h *CampaignHandler) ListTemplates(c *gin.Context) {
	var (
		templates []marketingapp.TemplateResponse
		err       error
	)
	if category := c.Query("category"); category != "" {
		templates, err = h.templateService.ListByCategory(c.Request.Context(), getTenantID(c), category)
	} else {
		templates, err = h.templateService.ListActive(c.Request.Context(), getTenantID(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, templates)
}

// CreateTemplate godoc
// @ID           createEmailTemplate
// @Summary      Create an email template
// @Description  Subject and body may contain ${key} placeholders
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body marketingapp.TemplateRequest true "Template"
// @Success      201 {object} APIResponse[marketingapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/templates [post]
func (h *CampaignHandler) CreateTemplate(c *gin.Context) {
	var req marketingapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.templateService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateTemplate godoc
// @ID           updateEmailTemplate
// @Summary      Update an email template
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body marketingapp.TemplateRequest true "Template"
// @Success      200 {object} APIResponse[marketingapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/templates/{id} [put]
func (h *CampaignHandler) UpdateTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketingapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.templateService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteTemplate godoc
// @ID           deleteEmailTemplate
// @Summary      Delete an email template
// @Tags         campaigns
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/templates/{id} [delete]
func (h *CampaignHandler) DeleteTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RenderTemplate godoc
// @ID           renderEmailTemplate
// @Summary      Render a template with placeholder values
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body marketingapp.RenderTemplateRequest true "Values"
// @Success      200 {object} APIResponse[marketing.RenderedEmail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/templates/{id}/render [post]
func (h *CampaignHandler) RenderTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketingapp.RenderTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	var (
		rendered *marketing.RenderedEmail
		err      error
	)
	rendered, err = h.templateService.Render(c.Request.Context(), getTenantID(c), id, req.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rendered)
}

// ListSegments godoc
// @ID           listSegments
// @Summary      List customer segments
// @Tags         campaigns
// @Produce      json
// @Success      200 {object} APIResponse[[]marketingapp.SegmentResponse]
// @Security     BearerAuth
// @Router       /campaigns/segments [get]
func (h *CampaignHandler) ListSegments(c *gin.Context) {
	segments, err := h.segmentService.List(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, segments)
}

// CreateSegment godoc
// @ID           createSegment
// @Summary      Create a customer segment
// @Description  Criteria is a list of field=value terms joined by AND
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body marketingapp.SegmentRequest true "Segment"
// @Success      201 {object} APIResponse[marketingapp.SegmentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/segments [post]
func (h *CampaignHandler) CreateSegment(c *gin.Context) {
	var req marketingapp.SegmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.segmentService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSegment godoc
// @ID           getSegment
// @Summary      Get a segment
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Segment ID" format(uuid)
// @Success      200 {object} APIResponse[marketingapp.SegmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/segments/{id} [get]
func (h *CampaignHandler) GetSegment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.segmentService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSegment godoc
// @ID           updateSegment
// @Summary      Update a segment
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Segment ID" format(uuid)
// @Param        request body marketingapp.SegmentRequest true "Segment"
// @Success      200 {object} APIResponse[marketingapp.SegmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/segments/{id} [put]
func (h *CampaignHandler) UpdateSegment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req marketingapp.SegmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.segmentService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSegment godoc
// @ID           deleteSegment
// @Summary      Delete a segment
// @Tags         campaigns
// @Param        id path string true "Segment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/segments/{id} [delete]
func (h *CampaignHandler) DeleteSegment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.segmentService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EvaluateSegment godoc
// @ID           evaluateSegment
// @Summary      Recount the customers matching a segment
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Segment ID" format(uuid)
// @Success      200 {object} APIResponse[marketingapp.SegmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /campaigns/segments/{id}/evaluate [post]
func (h *CampaignHandler) EvaluateSegment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.segmentService.Evaluate(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
