package notification

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type is the delivery channel of a notification
type Type string

const (
	TypeEmail Type = "EMAIL"
	TypeSMS   Type = "SMS"
	TypeInApp Type = "IN_APP"
	TypePush  Type = "PUSH"
)

// ParseType normalizes a notification type; empty yields IN_APP
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case "":
		return TypeInApp, nil
	case TypeEmail, TypeSMS, TypeInApp, TypePush:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_TYPE", "Invalid notification type: "+s)
}

// Status is the delivery state of a notification
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusRead      Status = "READ"
	StatusFailed    Status = "FAILED"
)

// Source values used by producers inside the service
const (
	SourceWorkflow  = "workflow-service"
	SourceScheduler = "scheduler"
	SourceAPI       = "api"
)

// Notification is a message addressed to a user, email or phone
type Notification struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	Type            Type
	Title           string
	Message         string
	RecipientEmail  string
	RecipientPhone  string
	RecipientUserID *uuid.UUID
	Status          Status
	Source          string
	ReferenceType   string
	ReferenceID     string
	SentAt          *time.Time
	ReadAt          *time.Time
}

// Details describes a notification to create
type Details struct {
	Type            Type
	Title           string
	Message         string
	RecipientEmail  string
	RecipientPhone  string
	RecipientUserID *uuid.UUID
	Source          string
	ReferenceType   string
	ReferenceID     string
}

// NewNotification creates a notification marked as sent now
func NewNotification(tenantID uuid.UUID, d Details) (*Notification, error) {
	t, err := ParseType(string(d.Type))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Message) == "" && strings.TrimSpace(d.Title) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Notification needs a title or a message")
	}
	if t == TypeEmail && strings.TrimSpace(d.RecipientEmail) == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Email notification needs a recipient email")
	}
	n := &Notification{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		Type:            t,
		Title:           strings.TrimSpace(d.Title),
		Message:         d.Message,
		RecipientEmail:  strings.TrimSpace(d.RecipientEmail),
		RecipientPhone:  strings.TrimSpace(d.RecipientPhone),
		RecipientUserID: d.RecipientUserID,
		Source:          d.Source,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
	}
	n.MarkSent(n.CreatedAt)
	return n, nil
}

// MarkSent sets status SENT
func (n *Notification) MarkSent(at time.Time) {
	n.Status = StatusSent
	n.SentAt = &at
	n.UpdatedAt = at
}

// MarkFailed records a delivery failure
func (n *Notification) MarkFailed() {
	n.Status = StatusFailed
	n.SentAt = nil
	n.Stamp()
}

// MarkRead sets status READ; reading twice keeps the first ReadAt
func (n *Notification) MarkRead(at time.Time) {
	if n.Status == StatusRead {
		return
	}
	n.Status = StatusRead
	n.ReadAt = &at
	n.UpdatedAt = at
}

// IsUnread reports whether the notification was delivered but not read
func (n *Notification) IsUnread() bool {
	return n.Status == StatusSent || n.Status == StatusDelivered
}
