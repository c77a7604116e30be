package handler

import (
	customerapp "github.com/crm/backend/internal/application/customer"
	"github.com/gin-gonic/gin"
)

// ActivityHandler handles the interaction timeline: activities and notes
type ActivityHandler struct {
	BaseHandler
	activityService *customerapp.ActivityService
	noteService     *customerapp.NoteService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *customerapp.ActivityService, noteService *customerapp.NoteService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, noteService: noteService}
}

// CreateActivity godoc
// @ID           createActivity
// @Summary      Log an activity
// @Description  The activity must reference a customer or a lead of the tenant
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateActivityRequest true "Activity"
// @Success      201 {object} APIResponse[customerapp.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req customerapp.CreateActivityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.activityService.Create(c.Request.Context(), getTenantID(c), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByCustomer godoc
// @ID           listCustomerActivities
// @Summary      Activities of a customer
// @Tags         activities
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[[]customerapp.ActivityResponse]
// @Security     BearerAuth
// @Router       /activities/customer/{id} [get]
func (h *ActivityHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	activities, err := h.activityService.ListByCustomer(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, activities)
}

// ListByLead godoc
// @ID           listLeadActivities
// @Summary      Activities of a lead
// @Tags         activities
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[[]customerapp.ActivityResponse]
// @Security     BearerAuth
// @Router       /activities/lead/{id} [get]
func (h *ActivityHandler) ListByLead(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	activities, err := h.activityService.ListByLead(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, activities)
}

// DeleteActivity godoc
// @ID           deleteActivity
// @Summary      Delete an activity
// @Tags         activities
// @Param        id path string true "Activity ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.activityService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateNote godoc
// @ID           createNote
// @Summary      Attach a note to a customer
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateNoteRequest true "Note"
// @Success      201 {object} APIResponse[customerapp.NoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notes [post]
func (h *ActivityHandler) CreateNote(c *gin.Context) {
	var req customerapp.CreateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.noteService.Create(c.Request.Context(), getTenantID(c), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListNotes godoc
// @ID           listCustomerNotes
// @Summary      Notes of a customer
// @Tags         notes
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[[]customerapp.NoteResponse]
// @Security     BearerAuth
// @Router       /notes/customer/{id} [get]
func (h *ActivityHandler) ListNotes(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	notes, err := h.noteService.ListByCustomer(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}

// UpdateNote godoc
// @ID           updateNote
// @Summary      Replace a note's content
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id path string true "Note ID" format(uuid)
// @Param        request body customerapp.UpdateNoteRequest true "Content"
// @Success      200 {object} APIResponse[customerapp.NoteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notes/{id} [put]
func (h *ActivityHandler) UpdateNote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req customerapp.UpdateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.noteService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteNote godoc
// @ID           deleteNote
// @Summary      Delete a note
// @Tags         notes
// @Param        id path string true "Note ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notes/{id} [delete]
func (h *ActivityHandler) DeleteNote(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.noteService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
