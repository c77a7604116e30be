package models

import (
	"time"

	"github.com/crm/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for notifications
type NotificationModel struct {
	TenantModel
	Type            notification.Type   `gorm:"type:varchar(10);not null"`
	Title           string              `gorm:"type:varchar(300)"`
	Message         string              `gorm:"type:text"`
	RecipientEmail  string              `gorm:"type:varchar(200)"`
	RecipientPhone  string              `gorm:"type:varchar(50)"`
	RecipientUserID *uuid.UUID          `gorm:"type:uuid;index"`
	Status          notification.Status `gorm:"type:varchar(20);not null;index"`
	Source          string              `gorm:"type:varchar(100)"`
	ReferenceType   string              `gorm:"type:varchar(50)"`
	ReferenceID     string              `gorm:"type:varchar(100)"`
	SentAt          *time.Time
	ReadAt          *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:      m.BaseModel.ToDomain(),
		TenantID:        m.TenantID,
		Type:            m.Type,
		Title:           m.Title,
		Message:         m.Message,
		RecipientEmail:  m.RecipientEmail,
		RecipientPhone:  m.RecipientPhone,
		RecipientUserID: m.RecipientUserID,
		Status:          m.Status,
		Source:          m.Source,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		SentAt:          m.SentAt,
		ReadAt:          m.ReadAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		Type:            n.Type,
		Title:           n.Title,
		Message:         n.Message,
		RecipientEmail:  n.RecipientEmail,
		RecipientPhone:  n.RecipientPhone,
		RecipientUserID: n.RecipientUserID,
		Status:          n.Status,
		Source:          n.Source,
		ReferenceType:   n.ReferenceType,
		ReferenceID:     n.ReferenceID,
		SentAt:          n.SentAt,
		ReadAt:          n.ReadAt,
	}
	m.FromDomainTenantEntity(n.BaseEntity, n.TenantID)
	return m
}
