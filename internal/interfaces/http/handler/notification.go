package handler

import (
	"strconv"

	notificationapp "github.com/crm/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Create godoc
// @ID           createNotification
// @Summary      Create a notification
// @Description  EMAIL notifications are delivered through the mail integration
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.CreateNotificationRequest true "Notification"
// @Success      201 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req notificationapp.CreateNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.notificationService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine godoc
// @ID           listMyNotifications
// @Summary      The caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Param        limit query int false "Maximum items" default(50)
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.notificationService.ListByUser(c.Request.Context(), getTenantID(c), getUserID(c), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListUnread godoc
// @ID           listUnreadNotifications
// @Summary      The caller's unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Security     BearerAuth
// @Router       /notifications/unread [get]
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	items, err := h.notificationService.ListUnread(c.Request.Context(), getTenantID(c), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UnreadCount godoc
// @ID           countUnreadNotifications
// @Summary      Number of unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.UnreadCountResponse]
// @Security     BearerAuth
// @Router       /notifications/unread/count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), getTenantID(c), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notificationapp.UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark one notification read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.notificationService.MarkRead(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark every notification of the caller read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.MarkAllReadResponse]
// @Security     BearerAuth
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), getTenantID(c), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notificationapp.MarkAllReadResponse{Updated: updated})
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path string true "Notification ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
