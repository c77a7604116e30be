package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/notification"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultWorkflowTitle = "Notification"
	followupDueTitle     = "Follow-up due"
	defaultListLimit     = 100
)

// Service creates, delivers and tracks notifications
type Service struct {
	repo   notification.Repository
	email  integration.EmailSender
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new notification Service. A nil email sender leaves
// EMAIL notifications stored as SENT without delivery.
func NewService(repo notification.Repository, email integration.EmailSender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, email: email, logger: logger, now: time.Now}
}

// Create stores a notification as SENT. EMAIL notifications are delivered
// through the email sender first and stored as FAILED when delivery fails.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateNotificationRequest) (*NotificationResponse, error) {
	source := req.Source
	if source == "" {
		source = notification.SourceAPI
	}
	n, err := notification.NewNotification(tenantID, notification.Details{
		Type:            notification.Type(req.Type),
		Title:           req.Title,
		Message:         req.Message,
		RecipientEmail:  req.RecipientEmail,
		RecipientPhone:  req.RecipientPhone,
		RecipientUserID: req.RecipientUserID,
		Source:          source,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
	})
	if err != nil {
		return nil, err
	}
	s.deliver(ctx, n)
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

func (s *Service) deliver(ctx context.Context, n *notification.Notification) {
	if n.Type != notification.TypeEmail || n.RecipientEmail == "" || s.email == nil || !s.email.Enabled() {
		return
	}
	err := s.email.Send(ctx, integration.EmailMessage{
		To:      []string{n.RecipientEmail},
		Subject: n.Title,
		Body:    n.Message,
	})
	if err != nil {
		s.logger.Warn("notification email delivery failed",
			zap.String("notification_id", n.ID.String()),
			zap.String("recipient", n.RecipientEmail),
			zap.Error(err))
		n.MarkFailed()
	}
}

// Send creates an in-app notification from a workflow action payload
func (s *Service) Send(ctx context.Context, tenantID uuid.UUID, payload map[string]any) (map[string]any, error) {
	title := stringField(payload, "title")
	if title == "" {
		title = defaultWorkflowTitle
	}
	message := stringField(payload, "message")
	if message == "" {
		message = fmt.Sprintf("Workflow rule '%s' triggered for %s %s",
			stringField(payload, "ruleName"), stringField(payload, "entityType"), stringField(payload, "entityId"))
	}

	var recipient *uuid.UUID
	if params, ok := payload["actionParams"].(map[string]any); ok {
		if raw := stringField(params, "userId"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				recipient = &id
			}
		}
	}

	n, err := notification.NewNotification(tenantID, notification.Details{
		Type:            notification.TypeInApp,
		Title:           title,
		Message:         message,
		RecipientUserID: recipient,
		Source:          notification.SourceWorkflow,
		ReferenceType:   stringField(payload, "entityType"),
		ReferenceID:     stringField(payload, "entityId"),
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	return map[string]any{"status": string(notification.StatusSent), "notificationId": n.ID.String()}, nil
}

// NotifyFollowupDue tells the assignee a follow-up is due. Unassigned
// follow-ups have no one to notify and are skipped.
func (s *Service) NotifyFollowupDue(ctx context.Context, f *sales.Followup) error {
	if f.AssignedTo == nil {
		return nil
	}
	msg := fmt.Sprintf("%s follow-up scheduled for %s", f.Type, f.ScheduledAt.UTC().Format(time.RFC3339))
	if f.Notes != "" {
		msg += ": " + f.Notes
	}
	n, err := notification.NewNotification(f.TenantID, notification.Details{
		Type:            notification.TypeInApp,
		Title:           followupDueTitle,
		Message:         msg,
		RecipientUserID: f.AssignedTo,
		Source:          notification.SourceScheduler,
		ReferenceType:   "FOLLOWUP",
		ReferenceID:     f.ID.String(),
	})
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, n)
}

// ListByUser returns the user's notifications, newest first
func (s *Service) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]NotificationResponse, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	items, err := s.repo.FindByUser(ctx, tenantID, userID, limit)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(items), nil
}

// ListUnread returns the user's unread notifications
func (s *Service) ListUnread(ctx context.Context, tenantID, userID uuid.UUID) ([]NotificationResponse, error) {
	items, err := s.repo.FindUnread(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(items), nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, tenantID, userID)
}

// MarkRead flips one notification to READ
func (s *Service) MarkRead(ctx context.Context, tenantID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if n.Status != notification.StatusRead {
		n.MarkRead(s.now())
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	response := ToNotificationResponse(n)
	return &response, nil
}

// MarkAllRead flips every unread notification of the user to READ
func (s *Service) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_INPUT", "User is required")
	}
	return s.repo.MarkAllRead(ctx, tenantID, userID, s.now())
}

// Delete removes a notification
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
