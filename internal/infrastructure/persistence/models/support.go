package models

import (
	"time"

	"github.com/crm/backend/internal/domain/support"
	"github.com/google/uuid"
)

// TicketModel is the persistence model for the Ticket aggregate
type TicketModel struct {
	TenantAggregateModel
	Subject               string                 `gorm:"type:varchar(300);not null"`
	Description           string                 `gorm:"type:text"`
	Status                support.TicketStatus   `gorm:"type:varchar(30);not null;default:'OPEN';index"`
	Priority              support.TicketPriority `gorm:"type:varchar(10);not null;default:'MEDIUM';index"`
	Category              string                 `gorm:"type:varchar(100)"`
	CustomerID            *uuid.UUID             `gorm:"type:uuid;index"`
	AssignedTo            *uuid.UUID             `gorm:"type:uuid;index"`
	ResolvedAt            *time.Time
	SLADeadline           *time.Time `gorm:"column:sla_deadline"`
	ResolutionTimeMinutes *int
	FirstResponseAt       *time.Time
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "tickets"
}

// ToDomain converts the model to a domain Ticket
func (m *TicketModel) ToDomain() *support.Ticket {
	return &support.Ticket{
		TenantAggregateRoot:   m.ToDomainTenantAggregateRoot(),
		Subject:               m.Subject,
		Description:           m.Description,
		Status:                m.Status,
		Priority:              m.Priority,
		Category:              m.Category,
		CustomerID:            m.CustomerID,
		AssignedTo:            m.AssignedTo,
		ResolvedAt:            m.ResolvedAt,
		SLADeadline:           m.SLADeadline,
		ResolutionTimeMinutes: m.ResolutionTimeMinutes,
		FirstResponseAt:       m.FirstResponseAt,
	}
}

// TicketModelFromDomain creates a persistence model from a domain Ticket
func TicketModelFromDomain(t *support.Ticket) *TicketModel {
	m := &TicketModel{
		Subject:               t.Subject,
		Description:           t.Description,
		Status:                t.Status,
		Priority:              t.Priority,
		Category:              t.Category,
		CustomerID:            t.CustomerID,
		AssignedTo:            t.AssignedTo,
		ResolvedAt:            t.ResolvedAt,
		SLADeadline:           t.SLADeadline,
		ResolutionTimeMinutes: t.ResolutionTimeMinutes,
		FirstResponseAt:       t.FirstResponseAt,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// TicketResponseModel is the persistence model for ticket responses
type TicketResponseModel struct {
	TenantModel
	TicketID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Message       string                `gorm:"type:text;not null"`
	RespondedBy   string                `gorm:"type:varchar(100)"`
	ResponderType support.ResponderType `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (TicketResponseModel) TableName() string {
	return "ticket_responses"
}

// ToDomain converts the model to a domain TicketResponse
func (m *TicketResponseModel) ToDomain() *support.TicketResponse {
	return &support.TicketResponse{
		BaseEntity:    m.BaseModel.ToDomain(),
		TenantID:      m.TenantID,
		TicketID:      m.TicketID,
		Message:       m.Message,
		RespondedBy:   m.RespondedBy,
		ResponderType: m.ResponderType,
	}
}

// TicketResponseModelFromDomain creates a persistence model from a domain TicketResponse
func TicketResponseModelFromDomain(r *support.TicketResponse) *TicketResponseModel {
	m := &TicketResponseModel{
		TicketID:      r.TicketID,
		Message:       r.Message,
		RespondedBy:   r.RespondedBy,
		ResponderType: r.ResponderType,
	}
	m.FromDomainTenantEntity(r.BaseEntity, r.TenantID)
	return m
}
