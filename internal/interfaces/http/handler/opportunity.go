package handler

import (
	"strconv"

	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const defaultHighProbability = 70

// OpportunityHandler handles opportunity endpoints
type OpportunityHandler struct {
	BaseHandler
	opportunityService *salesapp.OpportunityService
}

// NewOpportunityHandler creates a new OpportunityHandler
func NewOpportunityHandler(opportunityService *salesapp.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

// Create godoc
// @ID           createOpportunity
// @Summary      Create an opportunity
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateOpportunityRequest true "Opportunity"
// @Success      201 {object} APIResponse[salesapp.OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req salesapp.CreateOpportunityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.opportunityService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getOpportunity
// @Summary      Get opportunity by ID
// @Tags         opportunities
// @Produce      json
// @Param        id path string true "Opportunity ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.OpportunityResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [get]
func (h *OpportunityHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.opportunityService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listOpportunities
// @Summary      List opportunities
// @Tags         opportunities
// @Produce      json
// @Param        search query string false "Name fragment"
// @Param        status query string false "Status" Enums(OPEN, WON, LOST)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]salesapp.OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	var filter salesapp.OpportunityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.opportunityService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListByStatus godoc
// @ID           listOpportunitiesByStatus
// @Summary      List opportunities with a status
// @Tags         opportunities
// @Produce      json
// @Param        status path string true "Status" Enums(OPEN, WON, LOST)
// @Success      200 {object} APIResponse[[]salesapp.OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/status/{status} [get]
func (h *OpportunityHandler) ListByStatus(c *gin.Context) {
	items, err := h.opportunityService.ListByStatus(c.Request.Context(), getTenantID(c), c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListByCustomer godoc
// @ID           listOpportunitiesByCustomer
// @Summary      Opportunities of a customer
// @Tags         opportunities
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.OpportunityResponse]
// @Security     BearerAuth
// @Router       /opportunities/customer/{id} [get]
func (h *OpportunityHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.opportunityService.ListByCustomer(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListHighProbability godoc
// @ID           listHighProbabilityOpportunities
// @Summary      Opportunities at or above a win probability
// @Tags         opportunities
// @Produce      json
// @Param        min query int false "Minimum probability" default(70)
// @Success      200 {object} APIResponse[[]salesapp.OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/high-probability [get]
func (h *OpportunityHandler) ListHighProbability(c *gin.Context) {
	minProbability := defaultHighProbability
	if raw := c.Query("min"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "min must be between 0 and 100")
			return
		}
		minProbability = v
	}
	items, err := h.opportunityService.ListHighProbability(c.Request.Context(), getTenantID(c), minProbability)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Update godoc
// @ID           updateOpportunity
// @Summary      Update an opportunity
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Param        id path string true "Opportunity ID" format(uuid)
// @Param        request body salesapp.UpdateOpportunityRequest true "Opportunity"
// @Success      200 {object} APIResponse[salesapp.OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [put]
func (h *OpportunityHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateOpportunityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.opportunityService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateOpportunityStatus
// @Summary      Mark an opportunity open, won or lost
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Param        id path string true "Opportunity ID" format(uuid)
// @Param        request body salesapp.UpdateOpportunityStatusRequest true "Status"
// @Success      200 {object} APIResponse[salesapp.OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id}/status [patch]
func (h *OpportunityHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateOpportunityStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.opportunityService.UpdateStatus(c.Request.Context(), getTenantID(c), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteOpportunity
// @Summary      Delete an opportunity
// @Tags         opportunities
// @Param        id path string true "Opportunity ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.opportunityService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
