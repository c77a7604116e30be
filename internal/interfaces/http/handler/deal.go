package handler

import (
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// DealHandler handles the sales pipeline
type DealHandler struct {
	BaseHandler
	dealService *salesapp.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *salesapp.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// PipelineValueData is the summed value of open deals
// @Description Open pipeline value
type PipelineValueData struct {
	Value float64 `json:"value"`
}

// Create godoc
// @ID           createDeal
// @Summary      Create a deal
// @Description  The customer must belong to the tenant
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateDealRequest true "Deal creation request"
// @Success      201 {object} APIResponse[salesapp.DealResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req salesapp.CreateDealRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.dealService.Create(c.Request.Context(), getTenantID(c), getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getDeal
// @Summary      Get deal by ID
// @Tags         deals
// @Produce      json
// @Param        id path string true "Deal ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.DealResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id} [get]
func (h *DealHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.dealService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listDeals
// @Summary      List deals
// @Tags         deals
// @Produce      json
// @Param        search query string false "Title fragment"
// @Param        stage query string false "Stage" Enums(NEW, QUALIFIED, PROPOSAL, NEGOTIATION, CLOSED_WON, CLOSED_LOST)
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        assigned_to query string false "Assignee" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]salesapp.DealResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	var filter salesapp.DealListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	deals, total, err := h.dealService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, deals, total, filter.Page, filter.PageSize)
}

// ListByStage godoc
// @ID           listDealsByStage
// @Summary      List deals in a stage
// @Tags         deals
// @Produce      json
// @Param        stage path string true "Stage"
// @Success      200 {object} APIResponse[[]salesapp.DealResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/stage/{stage} [get]
func (h *DealHandler) ListByStage(c *gin.Context) {
	deals, err := h.dealService.ListByStage(c.Request.Context(), getTenantID(c), c.Param("stage"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deals)
}

// ListByCustomer godoc
// @ID           listDealsByCustomer
// @Summary      List deals of a customer
// @Tags         deals
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.DealResponse]
// @Security     BearerAuth
// @Router       /deals/customer/{id} [get]
func (h *DealHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	deals, err := h.dealService.ListByCustomer(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deals)
}

// ListByAssignee godoc
// @ID           listDealsByAssignee
// @Summary      List deals assigned to a user
// @Tags         deals
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.DealResponse]
// @Security     BearerAuth
// @Router       /deals/assignee/{user_id} [get]
func (h *DealHandler) ListByAssignee(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	deals, err := h.dealService.ListByAssignee(c.Request.Context(), getTenantID(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deals)
}

// Search godoc
// @ID           searchDeals
// @Summary      Search deals by title
// @Tags         deals
// @Produce      json
// @Param        q query string true "Title fragment"
// @Success      200 {object} APIResponse[[]salesapp.DealResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/search [get]
func (h *DealHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		h.BadRequest(c, "q is required")
		return
	}
	deals, err := h.dealService.Search(c.Request.Context(), getTenantID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deals)
}

// Update godoc
// @ID           updateDeal
// @Summary      Update a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        id path string true "Deal ID" format(uuid)
// @Param        request body salesapp.UpdateDealRequest true "Deal update request"
// @Success      200 {object} APIResponse[salesapp.DealResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateDealRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.dealService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStage godoc
// @ID           updateDealStage
// @Summary      Move a deal to another stage
// @Description  Closed stages set the close time
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        id path string true "Deal ID" format(uuid)
// @Param        request body salesapp.UpdateDealStageRequest true "Stage"
// @Success      200 {object} APIResponse[salesapp.DealResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id}/stage [patch]
func (h *DealHandler) UpdateStage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateDealStageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.dealService.UpdateStage(c.Request.Context(), getTenantID(c), id, req.Stage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteDeal
// @Summary      Delete a deal
// @Tags         deals
// @Param        id path string true "Deal ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/{id} [delete]
func (h *DealHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dealService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Pipeline godoc
// @ID           getDealPipeline
// @Summary      Deal count and value per stage
// @Tags         deals
// @Produce      json
// @Success      200 {object} APIResponse[[]salesapp.StageSummaryResponse]
// @Security     BearerAuth
// @Router       /deals/pipeline [get]
func (h *DealHandler) Pipeline(c *gin.Context) {
	stages, err := h.dealService.Pipeline(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stages)
}

// PipelineValue godoc
// @ID           getOpenPipelineValue
// @Summary      Summed value of open deals
// @Tags         deals
// @Produce      json
// @Success      200 {object} APIResponse[PipelineValueData]
// @Security     BearerAuth
// @Router       /deals/pipeline/value [get]
func (h *DealHandler) PipelineValue(c *gin.Context) {
	value, err := h.dealService.OpenPipelineValue(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PipelineValueData{Value: value})
}

// Count godoc
// @ID           countDeals
// @Summary      Count deals, optionally in one stage
// @Tags         deals
// @Produce      json
// @Param        stage query string false "Stage"
// @Success      200 {object} APIResponse[CountData]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deals/count [get]
func (h *DealHandler) Count(c *gin.Context) {
	var (
		count int64
		err   error
	)
	if stage := c.Query("stage"); stage != "" {
		count, err = h.dealService.CountByStage(c.Request.Context(), getTenantID(c), stage)
	} else {
		count, err = h.dealService.CountDeals(c.Request.Context(), getTenantID(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}
