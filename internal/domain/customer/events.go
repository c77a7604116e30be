package customer

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeLead     = "Lead"
)

// Event type constants
const (
	EventTypeCustomerCreated   = "CustomerCreated"
	EventTypeCustomerUpdated   = "CustomerUpdated"
	EventTypeLeadCreated       = "LeadCreated"
	EventTypeLeadUpdated       = "LeadUpdated"
	EventTypeLeadStatusChanged = "LeadStatusChanged"
	EventTypeLeadScoreChanged  = "LeadScoreChanged"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Source     string    `json:"source,omitempty"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Email:           c.Email,
		Source:          c.Source,
	}
}

// CustomerUpdatedEvent is published when a customer profile changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Email:           c.Email,
	}
}

// LeadEvent is the common shape of lead events; it carries a snapshot of the
// attributes workflow conditions can test.
type LeadEvent struct {
	shared.BaseDomainEvent
	LeadID     uuid.UUID  `json:"lead_id"`
	Status     LeadStatus `json:"status"`
	Score      int        `json:"score"`
	Rating     LeadRating `json:"rating,omitempty"`
	Source     string     `json:"source,omitempty"`
	Industry   string     `json:"industry,omitempty"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	OldStatus  LeadStatus `json:"old_status,omitempty"`
	OldScore   *int       `json:"old_score,omitempty"`
}

// Payload exposes the lead snapshot to workflow rules
func (e *LeadEvent) Payload() map[string]any {
	p := map[string]any{
		"leadId":   e.LeadID.String(),
		"status":   string(e.Status),
		"score":    e.Score,
		"rating":   string(e.Rating),
		"source":   e.Source,
		"industry": e.Industry,
	}
	if e.AssignedTo != nil {
		p["assignedTo"] = e.AssignedTo.String()
	}
	if e.OldStatus != "" {
		p["oldStatus"] = string(e.OldStatus)
	}
	if e.OldScore != nil {
		p["oldScore"] = *e.OldScore
	}
	return p
}

func newLeadEvent(eventType string, l *Lead) *LeadEvent {
	return &LeadEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeLead, l.ID, l.TenantID),
		LeadID:          l.ID,
		Status:          l.Status,
		Score:           l.Score,
		Rating:          l.Rating,
		Source:          l.Source,
		Industry:        l.Industry,
		AssignedTo:      l.AssignedTo,
	}
}

// NewLeadCreatedEvent creates the event published when a lead is created
func NewLeadCreatedEvent(l *Lead) *LeadEvent {
	return newLeadEvent(EventTypeLeadCreated, l)
}

// NewLeadUpdatedEvent creates the event published when a lead is updated
func NewLeadUpdatedEvent(l *Lead) *LeadEvent {
	return newLeadEvent(EventTypeLeadUpdated, l)
}

// NewLeadStatusChangedEvent creates the event published on a status transition
func NewLeadStatusChangedEvent(l *Lead, oldStatus LeadStatus) *LeadEvent {
	e := newLeadEvent(EventTypeLeadStatusChanged, l)
	e.OldStatus = oldStatus
	return e
}

// NewLeadScoreChangedEvent creates the event published when the score moves
func NewLeadScoreChangedEvent(l *Lead, oldScore int) *LeadEvent {
	e := newLeadEvent(EventTypeLeadScoreChanged, l)
	e.OldScore = &oldScore
	return e
}

var _ shared.PayloadEvent = (*LeadEvent)(nil)
