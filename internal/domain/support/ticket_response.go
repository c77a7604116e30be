package support

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResponderType tells who wrote a ticket response
type ResponderType string

const (
	ResponderTypeAgent    ResponderType = "AGENT"
	ResponderTypeCustomer ResponderType = "CUSTOMER"
)

// ParseResponderType normalizes a responder type; empty yields AGENT
func ParseResponderType(s string) (ResponderType, error) {
	r := ResponderType(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case "":
		return ResponderTypeAgent, nil
	case ResponderTypeAgent, ResponderTypeCustomer:
		return r, nil
	}
	return "", shared.NewDomainError("INVALID_RESPONDER_TYPE", "Invalid responder type: "+s)
}

// TicketResponse is one message in a ticket conversation
type TicketResponse struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	TicketID      uuid.UUID
	Message       string
	RespondedBy   string
	ResponderType ResponderType
}

// NewTicketResponse creates a response on a ticket
func NewTicketResponse(ticket *Ticket, message, respondedBy string, responderType ResponderType) (*TicketResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Response message cannot be empty")
	}
	return &TicketResponse{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      ticket.TenantID,
		TicketID:      ticket.ID,
		Message:       message,
		RespondedBy:   respondedBy,
		ResponderType: responderType,
	}, nil
}
