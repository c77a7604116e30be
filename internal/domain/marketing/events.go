package marketing

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeCampaign is the aggregate type of campaign events
const AggregateTypeCampaign = "Campaign"

// Event type constants
const (
	EventTypeCampaignCreated       = "CampaignCreated"
	EventTypeCampaignStatusChanged = "CampaignStatusChanged"
)

// CampaignEvent carries a snapshot of the campaign for workflow rules
type CampaignEvent struct {
	shared.BaseDomainEvent
	CampaignID uuid.UUID      `json:"campaign_id"`
	Type       CampaignType   `json:"type"`
	Status     CampaignStatus `json:"status"`
	OldStatus  CampaignStatus `json:"old_status,omitempty"`
	Budget     float64        `json:"budget"`
	SentCount  int64          `json:"sent_count"`
}

// Payload exposes the campaign snapshot to workflow rules
func (e *CampaignEvent) Payload() map[string]any {
	p := map[string]any{
		"campaignId": e.CampaignID.String(),
		"type":       string(e.Type),
		"status":     string(e.Status),
		"budget":     e.Budget,
		"sentCount":  e.SentCount,
	}
	if e.OldStatus != "" {
		p["oldStatus"] = string(e.OldStatus)
	}
	return p
}

func newCampaignEvent(eventType string, c *Campaign) *CampaignEvent {
	budget, _ := c.Budget.Float64()
	return &CampaignEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCampaign, c.ID, c.TenantID),
		CampaignID:      c.ID,
		Type:            c.Type,
		Status:          c.Status,
		Budget:          budget,
		SentCount:       c.SentCount,
	}
}

// NewCampaignCreatedEvent creates the event published when a campaign is created
func NewCampaignCreatedEvent(c *Campaign) *CampaignEvent {
	return newCampaignEvent(EventTypeCampaignCreated, c)
}

// NewCampaignStatusChangedEvent creates the event published on a status transition
func NewCampaignStatusChangedEvent(c *Campaign, old CampaignStatus) *CampaignEvent {
	e := newCampaignEvent(EventTypeCampaignStatusChanged, c)
	e.OldStatus = old
	return e
}

var _ shared.PayloadEvent = (*CampaignEvent)(nil)
