package handler

import (
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// FollowupHandler handles scheduled follow-ups on deals
type FollowupHandler struct {
	BaseHandler
	followupService *salesapp.FollowupService
}

// NewFollowupHandler creates a new FollowupHandler
func NewFollowupHandler(followupService *salesapp.FollowupService) *FollowupHandler {
	return &FollowupHandler{followupService: followupService}
}

// Create godoc
// @ID           createFollowup
// @Summary      Schedule a follow-up on a deal
// @Tags         followups
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateFollowupRequest true "Follow-up"
// @Success      201 {object} APIResponse[salesapp.FollowupResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /followups [post]
func (h *FollowupHandler) Create(c *gin.Context) {
	var req salesapp.CreateFollowupRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.followupService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByDeal godoc
// @ID           listDealFollowups
// @Summary      Follow-ups of a deal
// @Tags         followups
// @Produce      json
// @Param        id path string true "Deal ID" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.FollowupResponse]
// @Security     BearerAuth
// @Router       /followups/deal/{id} [get]
func (h *FollowupHandler) ListByDeal(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	followups, err := h.followupService.ListByDeal(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, followups)
}

// ListPending godoc
// @ID           listPendingFollowups
// @Summary      Incomplete follow-ups of the tenant
// @Tags         followups
// @Produce      json
// @Success      200 {object} APIResponse[[]salesapp.FollowupResponse]
// @Security     BearerAuth
// @Router       /followups/pending [get]
func (h *FollowupHandler) ListPending(c *gin.Context) {
	followups, err := h.followupService.ListPending(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, followups)
}

// ListMine godoc
// @ID           listMyPendingFollowups
// @Summary      Incomplete follow-ups assigned to the caller
// @Tags         followups
// @Produce      json
// @Success      200 {object} APIResponse[[]salesapp.FollowupResponse]
// @Security     BearerAuth
// @Router       /followups/mine [get]
func (h *FollowupHandler) ListMine(c *gin.Context) {
	followups, err := h.followupService.ListPendingByUser(c.Request.Context(), getTenantID(c), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, followups)
}

// Complete godoc
// @ID           completeFollowup
// @Summary      Mark a follow-up done
// @Tags         followups
// @Produce      json
// @Param        id path string true "Follow-up ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.FollowupResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /followups/{id}/complete [post]
func (h *FollowupHandler) Complete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.followupService.Complete(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteFollowup
// @Summary      Delete a follow-up
// @Tags         followups
// @Param        id path string true "Follow-up ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /followups/{id} [delete]
func (h *FollowupHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.followupService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
