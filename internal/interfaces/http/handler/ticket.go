package handler

import (
	supportapp "github.com/crm/backend/internal/application/support"
	"github.com/gin-gonic/gin"
)

// TicketHandler handles support tickets and their responses
type TicketHandler struct {
	BaseHandler
	ticketService *supportapp.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *supportapp.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Create godoc
// @ID           createTicket
// @Summary      Open a support ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request body supportapp.CreateTicketRequest true "Ticket"
// @Success      201 {object} APIResponse[supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req supportapp.CreateTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ticketService.Create(c.Request.Context(), getTenantID(c), getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getTicket
// @Summary      Get ticket by ID
// @Tags         tickets
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[supportapp.TicketResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id} [get]
func (h *TicketHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.ticketService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listTickets
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Param        search query string false "Subject fragment"
// @Param        status query string false "Status" Enums(OPEN, IN_PROGRESS, WAITING_ON_CUSTOMER, RESOLVED, CLOSED)
// @Param        priority query string false "Priority" Enums(LOW, MEDIUM, HIGH, URGENT)
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        assigned_to query string false "Assignee" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	var filter supportapp.TicketListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	tickets, total, err := h.ticketService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tickets, total, filter.Page, filter.PageSize)
}

// ListByStatus godoc
// @ID           listTicketsByStatus
// @Summary      Tickets with a status
// @Tags         tickets
// @Produce      json
// @Param        status path string true "Status"
// @Success      200 {object} APIResponse[[]supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/status/{status} [get]
func (h *TicketHandler) ListByStatus(c *gin.Context) {
	tickets, err := h.ticketService.ListByStatus(c.Request.Context(), getTenantID(c), c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// ListByPriority godoc
// @ID           listTicketsByPriority
// @Summary      Tickets with a priority
// @Tags         tickets
// @Produce      json
// @Param        priority path string true "Priority"
// @Success      200 {object} APIResponse[[]supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/priority/{priority} [get]
func (h *TicketHandler) ListByPriority(c *gin.Context) {
	tickets, err := h.ticketService.ListByPriority(c.Request.Context(), getTenantID(c), c.Param("priority"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// ListByCustomer godoc
// @ID           listTicketsByCustomer
// @Summary      Tickets of a customer
// @Tags         tickets
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[[]supportapp.TicketResponse]
// @Security     BearerAuth
// @Router       /tickets/customer/{id} [get]
func (h *TicketHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tickets, err := h.ticketService.ListByCustomer(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// ListByAssignee godoc
// @ID           listTicketsByAssignee
// @Summary      Tickets assigned to a user
// @Tags         tickets
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[[]supportapp.TicketResponse]
// @Security     BearerAuth
// @Router       /tickets/assignee/{user_id} [get]
func (h *TicketHandler) ListByAssignee(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	tickets, err := h.ticketService.ListByAssignee(c.Request.Context(), getTenantID(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// Update godoc
// @ID           updateTicket
// @Summary      Update a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Param        request body supportapp.UpdateTicketRequest true "Ticket"
// @Success      200 {object} APIResponse[supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id} [put]
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req supportapp.UpdateTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ticketService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateTicketStatus
// @Summary      Change a ticket's status
// @Description  Resolving records the resolution time and SLA outcome
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Param        request body supportapp.UpdateTicketStatusRequest true "Status"
// @Success      200 {object} APIResponse[supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req supportapp.UpdateTicketStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ticketService.UpdateStatus(c.Request.Context(), getTenantID(c), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Assign godoc
// @ID           assignTicket
// @Summary      Assign a ticket to an agent
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Param        request body supportapp.AssignTicketRequest true "Assignee"
// @Success      200 {object} APIResponse[supportapp.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id}/assign [patch]
func (h *TicketHandler) Assign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req supportapp.AssignTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.ticketService.Assign(c.Request.Context(), getTenantID(c), id, req.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteTicket
// @Summary      Delete a ticket
// @Tags         tickets
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ticketService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddResponse godoc
// @ID           addTicketResponse
// @Summary      Reply on a ticket
// @Description  The first agent reply sets the first-response time
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Param        request body supportapp.AddResponseRequest true "Response"
// @Success      201 {object} APIResponse[supportapp.ResponseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id}/responses [post]
func (h *TicketHandler) AddResponse(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req supportapp.AddResponseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.RespondedBy == "" {
		req.RespondedBy = getActor(c)
	}
	resp, err := h.ticketService.AddResponse(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListResponses godoc
// @ID           listTicketResponses
// @Summary      Replies on a ticket
// @Tags         tickets
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[[]supportapp.ResponseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{id}/responses [get]
func (h *TicketHandler) ListResponses(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	responses, err := h.ticketService.ListResponses(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// Count godoc
// @ID           countTickets
// @Summary      Count tickets, optionally only open ones
// @Tags         tickets
// @Produce      json
// @Param        open query bool false "Only OPEN tickets"
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /tickets/count [get]
func (h *TicketHandler) Count(c *gin.Context) {
	var (
		count int64
		err   error
	)
	if c.Query("open") == "true" {
		count, err = h.ticketService.CountOpenTickets(c.Request.Context(), getTenantID(c))
	} else {
		count, err = h.ticketService.Count(c.Request.Context(), getTenantID(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}
