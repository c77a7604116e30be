package handler

import (
	"strconv"

	customerapp "github.com/crm/backend/internal/application/customer"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const defaultHighScore = 70

// LeadHandler handles lead endpoints including conversion and audit history
type LeadHandler struct {
	BaseHandler
	leadService *customerapp.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *customerapp.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create godoc
// @ID           createLead
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateLeadRequest true "Lead creation request"
// @Success      201 {object} APIResponse[customerapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req customerapp.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.leadService.Create(c.Request.Context(), getTenantID(c), getUserID(c), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getLead
// @Summary      Get lead by ID
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.LeadResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.leadService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listLeads
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Param        search query string false "Name, email or company fragment"
// @Param        status query string false "Status" Enums(NEW, CONTACTED, QUALIFIED, UNQUALIFIED, CONVERTED)
// @Param        assigned_to query string false "Assignee" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]customerapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	var filter customerapp.LeadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	leads, total, err := h.leadService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, leads, total, filter.Page, filter.PageSize)
}

// ListByStatus godoc
// @ID           listLeadsByStatus
// @Summary      List leads with a status
// @Tags         leads
// @Produce      json
// @Param        status path string true "Status"
// @Success      200 {object} APIResponse[[]customerapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/status/{status} [get]
func (h *LeadHandler) ListByStatus(c *gin.Context) {
	leads, err := h.leadService.ListByStatus(c.Request.Context(), getTenantID(c), c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leads)
}

// ListByAssignee godoc
// @ID           listLeadsByAssignee
// @Summary      List leads assigned to a user
// @Tags         leads
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[[]customerapp.LeadResponse]
// @Security     BearerAuth
// @Router       /leads/assignee/{user_id} [get]
func (h *LeadHandler) ListByAssignee(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	leads, err := h.leadService.ListByAssignee(c.Request.Context(), getTenantID(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leads)
}

// ListHighScore godoc
// @ID           listHighScoreLeads
// @Summary      List leads at or above a score
// @Tags         leads
// @Produce      json
// @Param        min_score query int false "Minimum score" default(70)
// @Success      200 {object} APIResponse[[]customerapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/high-score [get]
func (h *LeadHandler) ListHighScore(c *gin.Context) {
	minScore := defaultHighScore
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "min_score must be between 0 and 100")
			return
		}
		minScore = v
	}
	leads, err := h.leadService.ListHighScore(c.Request.Context(), getTenantID(c), minScore)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leads)
}

// Update godoc
// @ID           updateLead
// @Summary      Update a lead
// @Description  Status and score changes are recorded in the lead history
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body customerapp.UpdateLeadRequest true "Lead update request"
// @Success      200 {object} APIResponse[customerapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req customerapp.UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.leadService.Update(c.Request.Context(), getTenantID(c), id, getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateLeadStatus
// @Summary      Change a lead's status
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body customerapp.UpdateLeadStatusRequest true "New status"
// @Success      200 {object} APIResponse[customerapp.LeadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req customerapp.UpdateLeadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.leadService.UpdateStatus(c.Request.Context(), getTenantID(c), id, getActor(c), req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Convert godoc
// @ID           convertLead
// @Summary      Convert a lead into a customer
// @Description  Creates an ACTIVE customer from the lead and marks the lead CONVERTED
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.ConvertLeadResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.leadService.Convert(c.Request.Context(), getTenantID(c), id, getUserID(c), getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// History godoc
// @ID           getLeadHistory
// @Summary      Lead audit history
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[[]customerapp.LeadHistoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/history [get]
func (h *LeadHandler) History(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.leadService.History(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Delete godoc
// @ID           deleteLead
// @Summary      Delete a lead
// @Tags         leads
// @Param        id path string true "Lead ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.leadService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countLeads
// @Summary      Count leads of the tenant
// @Tags         leads
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /leads/count [get]
func (h *LeadHandler) Count(c *gin.Context) {
	count, err := h.leadService.Count(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}
