package notification

import (
	"time"

	"github.com/crm/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// CreateNotificationRequest represents a request to send a notification
type CreateNotificationRequest struct {
	Type            string     `json:"type" binding:"omitempty,oneof=EMAIL SMS IN_APP PUSH"`
	Title           string     `json:"title" binding:"max=200"`
	Message         string     `json:"message"`
	RecipientEmail  string     `json:"recipient_email" binding:"omitempty,email"`
	RecipientPhone  string     `json:"recipient_phone" binding:"max=50"`
	RecipientUserID *uuid.UUID `json:"recipient_user_id"`
	Source          string     `json:"source" binding:"max=100"`
	ReferenceType   string     `json:"reference_type" binding:"max=50"`
	ReferenceID     string     `json:"reference_id" binding:"max=100"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Title           string     `json:"title,omitempty"`
	Message         string     `json:"message,omitempty"`
	RecipientEmail  string     `json:"recipient_email,omitempty"`
	RecipientPhone  string     `json:"recipient_phone,omitempty"`
	RecipientUserID *uuid.UUID `json:"recipient_user_id,omitempty"`
	Status          string     `json:"status"`
	Source          string     `json:"source,omitempty"`
	ReferenceType   string     `json:"reference_type,omitempty"`
	ReferenceID     string     `json:"reference_id,omitempty"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// UnreadCountResponse carries the unread badge count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications were flipped
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a domain notification to a response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:              n.ID,
		Type:            string(n.Type),
		Title:           n.Title,
		Message:         n.Message,
		RecipientEmail:  n.RecipientEmail,
		RecipientPhone:  n.RecipientPhone,
		RecipientUserID: n.RecipientUserID,
		Status:          string(n.Status),
		Source:          n.Source,
		ReferenceType:   n.ReferenceType,
		ReferenceID:     n.ReferenceID,
		SentAt:          n.SentAt,
		ReadAt:          n.ReadAt,
		CreatedAt:       n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications
func ToNotificationResponses(items []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = ToNotificationResponse(&items[i])
	}
	return out
}
