package models

import (
	"time"

	"github.com/crm/backend/internal/domain/marketing"
	"github.com/shopspring/decimal"
)

// CampaignModel is the persistence model for the Campaign aggregate
type CampaignModel struct {
	TenantAggregateModel
	Name           string                   `gorm:"type:varchar(200);not null"`
	Description    string                   `gorm:"type:text"`
	Type           marketing.CampaignType   `gorm:"type:varchar(20);index"`
	Status         marketing.CampaignStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Goal           string          `gorm:"type:varchar(500)"`
	TargetAudience string          `gorm:"type:varchar(500)"`
	SentCount      int64           `gorm:"not null;default:0"`
	OpenCount      int64           `gorm:"not null;default:0"`
	ClickCount     int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "campaigns"
}

// ToDomain converts the model to a domain Campaign
func (m *CampaignModel) ToDomain() *marketing.Campaign {
	return &marketing.Campaign{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Type:                m.Type,
		Status:              m.Status,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		Budget:              m.Budget,
		Goal:                m.Goal,
		TargetAudience:      m.TargetAudience,
		SentCount:           m.SentCount,
		OpenCount:           m.OpenCount,
		ClickCount:          m.ClickCount,
	}
}

// CampaignModelFromDomain creates a persistence model from a domain Campaign
func CampaignModelFromDomain(c *marketing.Campaign) *CampaignModel {
	m := &CampaignModel{
		Name:           c.Name,
		Description:    c.Description,
		Type:           c.Type,
		Status:         c.Status,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Budget:         c.Budget,
		Goal:           c.Goal,
		TargetAudience: c.TargetAudience,
		SentCount:      c.SentCount,
		OpenCount:      c.OpenCount,
		ClickCount:     c.ClickCount,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// EmailTemplateModel is the persistence model for email templates
type EmailTemplateModel struct {
	TenantModel
	Name     string `gorm:"type:varchar(200);not null"`
	Subject  string `gorm:"type:varchar(300);not null"`
	Body     string `gorm:"type:text;not null"`
	Category string `gorm:"type:varchar(100);index"`
	Active   bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EmailTemplateModel) TableName() string {
	return "email_templates"
}

// ToDomain converts the model to a domain EmailTemplate
func (m *EmailTemplateModel) ToDomain() *marketing.EmailTemplate {
	return &marketing.EmailTemplate{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Name:       m.Name,
		Subject:    m.Subject,
		Body:       m.Body,
		Category:   m.Category,
		Active:     m.Active,
	}
}

// EmailTemplateModelFromDomain creates a persistence model from a domain EmailTemplate
func EmailTemplateModelFromDomain(t *marketing.EmailTemplate) *EmailTemplateModel {
	m := &EmailTemplateModel{
		Name:     t.Name,
		Subject:  t.Subject,
		Body:     t.Body,
		Category: t.Category,
		Active:   t.Active,
	}
	m.FromDomainTenantEntity(t.BaseEntity, t.TenantID)
	return m
}

// SegmentModel is the persistence model for audience segments
type SegmentModel struct {
	TenantModel
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Criteria    string `gorm:"type:text"`
	MemberCount int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SegmentModel) TableName() string {
	return "segments"
}

// ToDomain converts the model to a domain Segment
func (m *SegmentModel) ToDomain() *marketing.Segment {
	return &marketing.Segment{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		Name:        m.Name,
		Description: m.Description,
		Criteria:    m.Criteria,
		MemberCount: m.MemberCount,
	}
}

// SegmentModelFromDomain creates a persistence model from a domain Segment
func SegmentModelFromDomain(s *marketing.Segment) *SegmentModel {
	m := &SegmentModel{
		Name:        s.Name,
		Description: s.Description,
		Criteria:    s.Criteria,
		MemberCount: s.MemberCount,
	}
	m.FromDomainTenantEntity(s.BaseEntity, s.TenantID)
	return m
}
