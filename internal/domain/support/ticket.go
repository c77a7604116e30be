package support

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketStatus is the lifecycle state of a support ticket
type TicketStatus string

const (
	TicketStatusOpen              TicketStatus = "OPEN"
	TicketStatusInProgress        TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingOnCustomer TicketStatus = "WAITING_ON_CUSTOMER"
	TicketStatusResolved          TicketStatus = "RESOLVED"
	TicketStatusClosed            TicketStatus = "CLOSED"
)

// IsFinal reports whether the ticket no longer needs work
func (s TicketStatus) IsFinal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// ParseTicketStatus normalizes and validates a status string
func ParseTicketStatus(s string) (TicketStatus, error) {
	st := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingOnCustomer, TicketStatusResolved, TicketStatusClosed:
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Invalid ticket status: "+s)
}

// TicketPriority is the urgency of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ParseTicketPriority normalizes a priority; empty yields MEDIUM
func ParseTicketPriority(s string) (TicketPriority, error) {
	p := TicketPriority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case "":
		return TicketPriorityMedium, nil
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return p, nil
	}
	return "", shared.NewDomainError("INVALID_PRIORITY", "Invalid ticket priority: "+s)
}

// SLAWindow returns the resolution window granted to a priority
func (p TicketPriority) SLAWindow() time.Duration {
	switch p {
	case TicketPriorityUrgent:
		return 4 * time.Hour
	case TicketPriorityHigh:
		return 8 * time.Hour
	case TicketPriorityLow:
		return 72 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Ticket is a customer support request
type Ticket struct {
	shared.TenantAggregateRoot
	Subject               string
	Description           string
	Status                TicketStatus
	Priority              TicketPriority
	Category              string
	CustomerID            *uuid.UUID
	AssignedTo            *uuid.UUID
	ResolvedAt            *time.Time
	SLADeadline           *time.Time
	ResolutionTimeMinutes *int
	FirstResponseAt       *time.Time
}

// TicketDetails carries the editable fields of a ticket
type TicketDetails struct {
	Subject     string
	Description string
	Priority    TicketPriority
	Category    string
	CustomerID  *uuid.UUID
	AssignedTo  *uuid.UUID
	SLADeadline *time.Time
}

// NewTicket opens a ticket. Without an explicit deadline the SLA window of the
// priority applies from creation time.
func NewTicket(tenantID uuid.UUID, d TicketDetails) (*Ticket, error) {
	if err := validateTicket(&d); err != nil {
		return nil, err
	}
	t := &Ticket{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              TicketStatusOpen,
	}
	t.apply(d)
	if t.SLADeadline == nil {
		deadline := t.CreatedAt.Add(t.Priority.SLAWindow())
		t.SLADeadline = &deadline
	}
	t.AddDomainEvent(NewTicketCreatedEvent(t))
	return t, nil
}

// Update replaces the editable fields. Without an explicit deadline a
// priority change restarts the SLA window of the new priority from creation.
func (t *Ticket) Update(d TicketDetails) error {
	if err := validateTicket(&d); err != nil {
		return err
	}
	if d.SLADeadline == nil {
		if d.Priority != t.Priority {
			deadline := t.CreatedAt.Add(d.Priority.SLAWindow())
			d.SLADeadline = &deadline
		} else {
			d.SLADeadline = t.SLADeadline
		}
	}
	t.apply(d)
	t.Touch()
	t.AddDomainEvent(NewTicketUpdatedEvent(t))
	return nil
}

// ChangeStatus transitions the ticket. Resolving or closing stamps the
// resolution time once; reopening clears it.
func (t *Ticket) ChangeStatus(status TicketStatus) error {
	if _, err := ParseTicketStatus(string(status)); err != nil {
		return err
	}
	if t.Status == status {
		return nil
	}
	old := t.Status
	t.Status = status
	now := time.Now()

	if status.IsFinal() {
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
			minutes := int(now.Sub(t.CreatedAt).Minutes())
			t.ResolutionTimeMinutes = &minutes
		}
	} else {
		t.ResolvedAt = nil
		t.ResolutionTimeMinutes = nil
	}

	t.Touch()
	t.AddDomainEvent(NewTicketStatusChangedEvent(t, old))
	return nil
}

// Assign sets the agent responsible for the ticket
func (t *Ticket) Assign(userID uuid.UUID) {
	t.AssignedTo = &userID
	t.Touch()
	t.AddDomainEvent(NewTicketUpdatedEvent(t))
}

// RecordResponse notes the first agent response time
func (t *Ticket) RecordResponse(responderType ResponderType, at time.Time) {
	if responderType == ResponderTypeAgent && t.FirstResponseAt == nil {
		t.FirstResponseAt = &at
		t.Touch()
	}
}

// IsSLABreached reports whether an unresolved ticket is past its deadline
func (t *Ticket) IsSLABreached(at time.Time) bool {
	return t.SLADeadline != nil && !t.Status.IsFinal() && at.After(*t.SLADeadline)
}

func (t *Ticket) apply(d TicketDetails) {
	t.Subject = d.Subject
	t.Description = d.Description
	t.Priority = d.Priority
	t.Category = d.Category
	t.CustomerID = d.CustomerID
	t.AssignedTo = d.AssignedTo
	t.SLADeadline = d.SLADeadline
}

func validateTicket(d *TicketDetails) error {
	d.Subject = strings.TrimSpace(d.Subject)
	if d.Subject == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Ticket subject cannot be empty")
	}
	if len(d.Subject) > 300 {
		return shared.NewDomainError("INVALID_SUBJECT", "Ticket subject cannot exceed 300 characters")
	}
	p, err := ParseTicketPriority(string(d.Priority))
	if err != nil {
		return err
	}
	d.Priority = p
	return nil
}
