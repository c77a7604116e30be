package marketing

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignType is the channel a campaign runs on
type CampaignType string

const (
	CampaignTypeEmail       CampaignType = "EMAIL"
	CampaignTypeSMS         CampaignType = "SMS"
	CampaignTypeSocialMedia CampaignType = "SOCIAL_MEDIA"
	CampaignTypeWebinar     CampaignType = "WEBINAR"
)

// ParseCampaignType normalizes a campaign type; empty is allowed
func ParseCampaignType(s string) (CampaignType, error) {
	t := CampaignType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case "", CampaignTypeEmail, CampaignTypeSMS, CampaignTypeSocialMedia, CampaignTypeWebinar:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_TYPE", "Invalid campaign type: "+s)
}

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"
	CampaignStatusScheduled CampaignStatus = "SCHEDULED"
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusPaused    CampaignStatus = "PAUSED"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
	CampaignStatusCancelled CampaignStatus = "CANCELLED"
)

// ParseCampaignStatus normalizes and validates a status string
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	st := CampaignStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusActive,
		CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusCancelled:
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Invalid campaign status: "+s)
}

// Campaign is a marketing campaign with delivery counters
type Campaign struct {
	shared.TenantAggregateRoot
	Name           string
	Description    string
	Type           CampaignType
	Status         CampaignStatus
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         decimal.Decimal
	Goal           string
	TargetAudience string
	SentCount      int64
	OpenCount      int64
	ClickCount     int64
}

// CampaignDetails carries the editable fields of a campaign
type CampaignDetails struct {
	Name           string
	Description    string
	Type           CampaignType
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         decimal.Decimal
	Goal           string
	TargetAudience string
}

// NewCampaign creates a draft campaign
func NewCampaign(tenantID uuid.UUID, d CampaignDetails) (*Campaign, error) {
	if err := validateCampaign(&d); err != nil {
		return nil, err
	}
	c := &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              CampaignStatusDraft,
	}
	c.apply(d)
	c.AddDomainEvent(NewCampaignCreatedEvent(c))
	return c, nil
}

// Update replaces the editable fields
func (c *Campaign) Update(d CampaignDetails) error {
	if err := validateCampaign(&d); err != nil {
		return err
	}
	c.apply(d)
	c.Touch()
	return nil
}

// ChangeStatus transitions the campaign, emitting an event when it changed
func (c *Campaign) ChangeStatus(status CampaignStatus) error {
	if _, err := ParseCampaignStatus(string(status)); err != nil {
		return err
	}
	if c.Status == status {
		return nil
	}
	old := c.Status
	c.Status = status
	c.Touch()
	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, old))
	return nil
}

// RecordMetrics adds delivery counters; negative deltas are rejected
func (c *Campaign) RecordMetrics(sent, opened, clicked int64) error {
	if sent < 0 || opened < 0 || clicked < 0 {
		return shared.NewDomainError("INVALID_METRICS", "Campaign metrics cannot be negative")
	}
	c.SentCount += sent
	c.OpenCount += opened
	c.ClickCount += clicked
	c.Touch()
	return nil
}

// OpenRate is opens over sends as a percentage
func (c *Campaign) OpenRate() float64 {
	return rate(c.OpenCount, c.SentCount)
}

// ClickRate is clicks over sends as a percentage
func (c *Campaign) ClickRate() float64 {
	return rate(c.ClickCount, c.SentCount)
}

func rate(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func (c *Campaign) apply(d CampaignDetails) {
	c.Name = d.Name
	c.Description = d.Description
	c.Type = d.Type
	c.StartDate = d.StartDate
	c.EndDate = d.EndDate
	c.Budget = d.Budget
	c.Goal = d.Goal
	c.TargetAudience = d.TargetAudience
}

func validateCampaign(d *CampaignDetails) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	t, err := ParseCampaignType(string(d.Type))
	if err != nil {
		return err
	}
	d.Type = t
	if d.Budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Campaign budget cannot be negative")
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return shared.NewDomainError("INVALID_DATES", "Campaign end date cannot precede start date")
	}
	return nil
}
