package handler

import (
	integrationapp "github.com/crm/backend/internal/application/integration"
	"github.com/gin-gonic/gin"
)

// IntegrationHandler exposes outbound email and webhook calls. Delivery
// failures are part of a 200 result body, not HTTP errors.
type IntegrationHandler struct {
	BaseHandler
	integrationService *integrationapp.Service
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrationService *integrationapp.Service) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService}
}

// Status godoc
// @ID           getIntegrationStatus
// @Summary      Integration service status and capabilities
// @Tags         integrations
// @Produce      json
// @Success      200 {object} APIResponse[integrationapp.StatusResponse]
// @Router       /integrations/status [get]
func (h *IntegrationHandler) Status(c *gin.Context) {
	h.Success(c, h.integrationService.Status())
}

// SendEmail godoc
// @ID           sendEmail
// @Summary      Send an email
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        request body integrationapp.SendEmailRequest true "Email"
// @Success      200 {object} APIResponse[integrationapp.EmailResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/email [post]
func (h *IntegrationHandler) SendEmail(c *gin.Context) {
	var req integrationapp.SendEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, h.integrationService.SendEmail(c.Request.Context(), req))
}

// SendWebhook godoc
// @ID           sendWebhook
// @Summary      Call an external webhook
// @Description  Supports POST, PUT and GET over http or https
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        request body integrationapp.SendWebhookRequest true "Webhook"
// @Success      200 {object} APIResponse[integrationapp.WebhookResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/webhook [post]
func (h *IntegrationHandler) SendWebhook(c *gin.Context) {
	var req integrationapp.SendWebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, h.integrationService.SendWebhook(c.Request.Context(), req))
}
