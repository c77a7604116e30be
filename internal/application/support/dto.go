package support

import (
	"time"

	"github.com/crm/backend/internal/domain/support"
	"github.com/google/uuid"
)

// CreateTicketRequest represents a request to open a ticket
type CreateTicketRequest struct {
	Subject     string     `json:"subject" binding:"required,min=1,max=300"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Category    string     `json:"category" binding:"max=100"`
	CustomerID  *uuid.UUID `json:"customer_id"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	SLADeadline *time.Time `json:"sla_deadline"`
	Status      string     `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS WAITING_ON_CUSTOMER RESOLVED CLOSED"`
}

// UpdateTicketRequest represents a request to update a ticket
type UpdateTicketRequest CreateTicketRequest

// UpdateTicketStatusRequest changes only the status
type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN IN_PROGRESS WAITING_ON_CUSTOMER RESOLVED CLOSED"`
}

// AssignTicketRequest assigns a ticket to an agent
type AssignTicketRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// TicketListFilter represents filter options for the ticket list
type TicketListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS WAITING_ON_CUSTOMER RESOLVED CLOSED"`
	Priority   string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID                    uuid.UUID  `json:"id"`
	TenantID              uuid.UUID  `json:"tenant_id"`
	Subject               string     `json:"subject"`
	Description           string     `json:"description,omitempty"`
	Status                string     `json:"status"`
	Priority              string     `json:"priority"`
	Category              string     `json:"category,omitempty"`
	CustomerID            *uuid.UUID `json:"customer_id,omitempty"`
	AssignedTo            *uuid.UUID `json:"assigned_to,omitempty"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
	SLADeadline           *time.Time `json:"sla_deadline,omitempty"`
	SLABreached           bool       `json:"sla_breached"`
	ResolutionTimeMinutes *int       `json:"resolution_time_minutes,omitempty"`
	FirstResponseAt       *time.Time `json:"first_response_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	Version               int        `json:"version"`
}

// ToTicketResponse converts a domain ticket to a response
func ToTicketResponse(t *support.Ticket) TicketResponse {
	return TicketResponse{
		ID:                    t.ID,
		TenantID:              t.TenantID,
		Subject:               t.Subject,
		Description:           t.Description,
		Status:                string(t.Status),
		Priority:              string(t.Priority),
		Category:              t.Category,
		CustomerID:            t.CustomerID,
		AssignedTo:            t.AssignedTo,
		ResolvedAt:            t.ResolvedAt,
		SLADeadline:           t.SLADeadline,
		SLABreached:           t.IsSLABreached(time.Now()),
		ResolutionTimeMinutes: t.ResolutionTimeMinutes,
		FirstResponseAt:       t.FirstResponseAt,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		Version:               t.Version,
	}
}

// ToTicketResponses converts a slice of tickets
func ToTicketResponses(tickets []support.Ticket) []TicketResponse {
	out := make([]TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = ToTicketResponse(&tickets[i])
	}
	return out
}

// AddResponseRequest adds a message to a ticket conversation
type AddResponseRequest struct {
	Message       string `json:"message" binding:"required"`
	RespondedBy   string `json:"responded_by" binding:"max=100"`
	ResponderType string `json:"responder_type" binding:"omitempty,oneof=AGENT CUSTOMER"`
}

// ResponseResponse represents a ticket response in API responses
type ResponseResponse struct {
	ID            uuid.UUID `json:"id"`
	TicketID      uuid.UUID `json:"ticket_id"`
	Message       string    `json:"message"`
	RespondedBy   string    `json:"responded_by,omitempty"`
	ResponderType string    `json:"responder_type"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponseResponse(r *support.TicketResponse) ResponseResponse {
	return ResponseResponse{
		ID:            r.ID,
		TicketID:      r.TicketID,
		Message:       r.Message,
		RespondedBy:   r.RespondedBy,
		ResponderType: string(r.ResponderType),
		CreatedAt:     r.CreatedAt,
	}
}

// ToResponseResponses converts a slice of ticket responses
func ToResponseResponses(responses []support.TicketResponse) []ResponseResponse {
	out := make([]ResponseResponse, len(responses))
	for i := range responses {
		out[i] = toResponseResponse(&responses[i])
	}
	return out
}
