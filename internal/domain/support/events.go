package support

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeTicket is the aggregate type of ticket events
const AggregateTypeTicket = "Ticket"

// Event type constants
const (
	EventTypeTicketCreated       = "TicketCreated"
	EventTypeTicketUpdated       = "TicketUpdated"
	EventTypeTicketStatusChanged = "TicketStatusChanged"
)

// TicketEvent carries a snapshot of the ticket attributes rules can test
type TicketEvent struct {
	shared.BaseDomainEvent
	TicketID   uuid.UUID      `json:"ticket_id"`
	Status     TicketStatus   `json:"status"`
	OldStatus  TicketStatus   `json:"old_status,omitempty"`
	Priority   TicketPriority `json:"priority"`
	Category   string         `json:"category,omitempty"`
	CustomerID *uuid.UUID     `json:"customer_id,omitempty"`
	AssignedTo *uuid.UUID     `json:"assigned_to,omitempty"`
}

// priorityRank maps priorities to numbers so numeric conditions can compare them
var priorityRank = map[TicketPriority]int{
	TicketPriorityLow:    1,
	TicketPriorityMedium: 2,
	TicketPriorityHigh:   3,
	TicketPriorityUrgent: 4,
}

// Payload exposes the ticket snapshot to workflow rules
func (e *TicketEvent) Payload() map[string]any {
	p := map[string]any{
		"ticketId":     e.TicketID.String(),
		"status":       string(e.Status),
		"priority":     string(e.Priority),
		"priorityRank": priorityRank[e.Priority],
		"category":     e.Category,
	}
	if e.OldStatus != "" {
		p["oldStatus"] = string(e.OldStatus)
	}
	if e.CustomerID != nil {
		p["customerId"] = e.CustomerID.String()
	}
	if e.AssignedTo != nil {
		p["assignedTo"] = e.AssignedTo.String()
	}
	return p
}

func newTicketEvent(eventType string, t *Ticket) *TicketEvent {
	return &TicketEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTicket, t.ID, t.TenantID),
		TicketID:        t.ID,
		Status:          t.Status,
		Priority:        t.Priority,
		Category:        t.Category,
		CustomerID:      t.CustomerID,
		AssignedTo:      t.AssignedTo,
	}
}

// NewTicketCreatedEvent creates the event published when a ticket is opened
func NewTicketCreatedEvent(t *Ticket) *TicketEvent {
	return newTicketEvent(EventTypeTicketCreated, t)
}

// NewTicketUpdatedEvent creates the event published when a ticket is edited
func NewTicketUpdatedEvent(t *Ticket) *TicketEvent {
	return newTicketEvent(EventTypeTicketUpdated, t)
}

// NewTicketStatusChangedEvent creates the event published on a status transition
func NewTicketStatusChangedEvent(t *Ticket, old TicketStatus) *TicketEvent {
	e := newTicketEvent(EventTypeTicketStatusChanged, t)
	e.OldStatus = old
	return e
}

var _ shared.PayloadEvent = (*TicketEvent)(nil)
