package handler

import (
	workflowapp "github.com/crm/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
)

// WorkflowHandler manages automation rules, action definitions and execution logs
type WorkflowHandler struct {
	BaseHandler
	ruleService *workflowapp.RuleService
	engine      *workflowapp.Engine
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(ruleService *workflowapp.RuleService, engine *workflowapp.Engine) *WorkflowHandler {
	return &WorkflowHandler{ruleService: ruleService, engine: engine}
}

// CreateRule godoc
// @ID           createWorkflowRule
// @Summary      Create an automation rule
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        request body workflowapp.RuleRequest true "Rule"
// @Success      201 {object} APIResponse[workflowapp.RuleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/rules [post]
func (h *WorkflowHandler) CreateRule(c *gin.Context) {
	var req workflowapp.RuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ruleService.CreateRule(c.Request.Context(), getTenantID(c), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListRules godoc
// @ID           listWorkflowRules
// @Summary      List rules, optionally only active ones
// @Tags         workflows
// @Produce      json
// @Param        active query bool false "Only active rules"
// @Success      200 {object} APIResponse[[]workflowapp.RuleResponse]
// @Security     BearerAuth
// @Router       /workflows/rules [get]
func (h *WorkflowHandler) ListRules(c *gin.Context) {
	var (
		rules []workflowapp.RuleResponse
		err   error
	)
	if c.Query("active") == "true" {
		rules, err = h.ruleService.ListActiveRules(c.Request.Context(), getTenantID(c))
	} else {
		rules, err = h.ruleService.ListRules(c.Request.Context(), getTenantID(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rules)
}

// GetRule godoc
// @ID           getWorkflowRule
// @Summary      Get a rule
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[workflowapp.RuleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/rules/{id} [get]
func (h *WorkflowHandler) GetRule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.ruleService.GetRule(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateRule godoc
// @ID           updateWorkflowRule
// @Summary      Update a rule
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body workflowapp.RuleRequest true "Rule"
// @Success      200 {object} APIResponse[workflowapp.RuleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/rules/{id} [put]
func (h *WorkflowHandler) UpdateRule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req workflowapp.RuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ruleService.UpdateRule(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ToggleRule godoc
// @ID           toggleWorkflowRule
// @Summary      Flip a rule between active and inactive
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[workflowapp.RuleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/rules/{id}/toggle [patch]
func (h *WorkflowHandler) ToggleRule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.ruleService.ToggleRule(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteRule godoc
// @ID           deleteWorkflowRule
// @Summary      Delete a rule
// @Tags         workflows
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/rules/{id} [delete]
func (h *WorkflowHandler) DeleteRule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ruleService.DeleteRule(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateAction godoc
// @ID           createWorkflowAction
// @Summary      Create an action definition
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        request body workflowapp.ActionRequest true "Action"
// @Success      201 {object} APIResponse[workflowapp.ActionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/actions [post]
func (h *WorkflowHandler) CreateAction(c *gin.Context) {
	var req workflowapp.ActionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ruleService.CreateAction(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListActions godoc
// @ID           listWorkflowActions
// @Summary      List action definitions
// @Tags         workflows
// @Produce      json
// @Success      200 {object} APIResponse[[]workflowapp.ActionResponse]
// @Security     BearerAuth
// @Router       /workflows/actions [get]
func (h *WorkflowHandler) ListActions(c *gin.Context) {
	actions, err := h.ruleService.ListActions(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actions)
}

// DeleteAction godoc
// @ID           deleteWorkflowAction
// @Summary      Delete an action definition
// @Tags         workflows
// @Param        id path string true "Action ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/actions/{id} [delete]
func (h *WorkflowHandler) DeleteAction(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ruleService.DeleteAction(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecentLogs godoc
// @ID           listRecentWorkflowLogs
// @Summary      Newest rule executions
// @Tags         workflows
// @Produce      json
// @Success      200 {object} APIResponse[[]workflowapp.LogResponse]
// @Security     BearerAuth
// @Router       /workflows/logs [get]
func (h *WorkflowHandler) RecentLogs(c *gin.Context) {
	logs, err := h.ruleService.RecentLogs(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// LogsByRule godoc
// @ID           listWorkflowLogsByRule
// @Summary      Executions of one rule
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[[]workflowapp.LogResponse]
// @Security     BearerAuth
// @Router       /workflows/logs/rule/{id} [get]
func (h *WorkflowHandler) LogsByRule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	logs, err := h.ruleService.LogsByRule(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// LogsByEntity godoc
// @ID           listWorkflowLogsByEntity
// @Summary      Executions triggered by one entity
// @Tags         workflows
// @Produce      json
// @Param        entity_type path string true "Entity type" Enums(LEAD, DEAL, TICKET, CAMPAIGN)
// @Param        entity_id path string true "Entity ID"
// @Success      200 {object} APIResponse[[]workflowapp.LogResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/logs/entity/{entity_type}/{entity_id} [get]
func (h *WorkflowHandler) LogsByEntity(c *gin.Context) {
	logs, err := h.ruleService.LogsByEntity(c.Request.Context(), getTenantID(c), c.Param("entity_type"), c.Param("entity_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// Trigger godoc
// @ID           triggerWorkflow
// @Summary      Run matching rules for an entity event
// @Description  Evaluates the active rules of the tenant and returns one log per executed rule
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        request body workflowapp.TriggerRequest true "Trigger"
// @Success      200 {object} APIResponse[[]workflowapp.LogResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workflows/trigger [post]
func (h *WorkflowHandler) Trigger(c *gin.Context) {
	var req workflowapp.TriggerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	logs, err := h.engine.Trigger(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}
