package models

import (
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealModel is the persistence model for the Deal aggregate
type DealModel struct {
	TenantAggregateModel
	Title             string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	Value             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stage             sales.DealStage `gorm:"type:varchar(30);not null;default:'NEW';index"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AssignedTo        *uuid.UUID      `gorm:"type:uuid;index"`
	Priority          sales.Priority  `gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	ExpectedCloseDate *time.Time
	Type              sales.DealType `gorm:"type:varchar(30)"`
	LeadSource        string         `gorm:"type:varchar(100)"`
	NextStep          string         `gorm:"type:varchar(500)"`
	Probability       int            `gorm:"not null;default:0"`
	CampaignSource    string         `gorm:"type:varchar(200)"`
	ClosedAt          *time.Time
}

// TableName returns the table name for GORM
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the model to a domain Deal
func (m *DealModel) ToDomain() *sales.Deal {
	return &sales.Deal{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Title:               m.Title,
		Description:         m.Description,
		Value:               m.Value,
		Stage:               m.Stage,
		CustomerID:          m.CustomerID,
		AssignedTo:          m.AssignedTo,
		Priority:            m.Priority,
		ExpectedCloseDate:   m.ExpectedCloseDate,
		Type:                m.Type,
		LeadSource:          m.LeadSource,
		NextStep:            m.NextStep,
		Probability:         m.Probability,
		CampaignSource:      m.CampaignSource,
		ClosedAt:            m.ClosedAt,
	}
}

// DealModelFromDomain creates a persistence model from a domain Deal
func DealModelFromDomain(d *sales.Deal) *DealModel {
	m := &DealModel{
		Title:             d.Title,
		Description:       d.Description,
		Value:             d.Value,
		Stage:             d.Stage,
		CustomerID:        d.CustomerID,
		AssignedTo:        d.AssignedTo,
		Priority:          d.Priority,
		ExpectedCloseDate: d.ExpectedCloseDate,
		Type:              d.Type,
		LeadSource:        d.LeadSource,
		NextStep:          d.NextStep,
		Probability:       d.Probability,
		CampaignSource:    d.CampaignSource,
		ClosedAt:          d.ClosedAt,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// FollowupModel is the persistence model for deal follow-ups
type FollowupModel struct {
	TenantModel
	DealID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	Type           sales.FollowupType `gorm:"type:varchar(20);not null"`
	Notes          string             `gorm:"type:text"`
	ScheduledAt    time.Time          `gorm:"not null;index"`
	Completed      bool               `gorm:"not null;default:false;index"`
	CompletedAt    *time.Time
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index"`
	ReminderSentAt *time.Time
}

// TableName returns the table name for GORM
func (FollowupModel) TableName() string {
	return "followups"
}

// ToDomain converts the model to a domain Followup
func (m *FollowupModel) ToDomain() *sales.Followup {
	return &sales.Followup{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		DealID:         m.DealID,
		Type:           m.Type,
		Notes:          m.Notes,
		ScheduledAt:    m.ScheduledAt,
		Completed:      m.Completed,
		CompletedAt:    m.CompletedAt,
		AssignedTo:     m.AssignedTo,
		ReminderSentAt: m.ReminderSentAt,
	}
}

// FollowupModelFromDomain creates a persistence model from a domain Followup
func FollowupModelFromDomain(f *sales.Followup) *FollowupModel {
	m := &FollowupModel{
		DealID:         f.DealID,
		Type:           f.Type,
		Notes:          f.Notes,
		ScheduledAt:    f.ScheduledAt,
		Completed:      f.Completed,
		CompletedAt:    f.CompletedAt,
		AssignedTo:     f.AssignedTo,
		ReminderSentAt: f.ReminderSentAt,
	}
	m.FromDomainTenantEntity(f.BaseEntity, f.TenantID)
	return m
}

// OpportunityModel is the persistence model for opportunities
type OpportunityModel struct {
	TenantModel
	Name        string                  `gorm:"type:varchar(200);not null"`
	Amount      decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Probability int                     `gorm:"not null;default:0;index"`
	Source      string                  `gorm:"type:varchar(100)"`
	CustomerID  *uuid.UUID              `gorm:"type:uuid;index"`
	AssignedTo  *uuid.UUID              `gorm:"type:uuid"`
	Status      sales.OpportunityStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
}

// TableName returns the table name for GORM
func (OpportunityModel) TableName() string {
	return "opportunities"
}

// ToDomain converts the model to a domain Opportunity
func (m *OpportunityModel) ToDomain() *sales.Opportunity {
	return &sales.Opportunity{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		Name:        m.Name,
		Amount:      m.Amount,
		Probability: m.Probability,
		Source:      m.Source,
		CustomerID:  m.CustomerID,
		AssignedTo:  m.AssignedTo,
		Status:      m.Status,
	}
}

// OpportunityModelFromDomain creates a persistence model from a domain Opportunity
func OpportunityModelFromDomain(o *sales.Opportunity) *OpportunityModel {
	m := &OpportunityModel{
		Name:        o.Name,
		Amount:      o.Amount,
		Probability: o.Probability,
		Source:      o.Source,
		CustomerID:  o.CustomerID,
		AssignedTo:  o.AssignedTo,
		Status:      o.Status,
	}
	m.FromDomainTenantEntity(o.BaseEntity, o.TenantID)
	return m
}
