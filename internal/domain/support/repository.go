package support

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketRepository defines the interface for ticket persistence
type TicketRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Ticket, error)

	// FindAllForTenant lists tickets; Filters may carry "status", "priority",
	// "customer_id" and "assigned_to"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Ticket, error)

	Save(ctx context.Context, ticket *Ticket) error

	// DeleteForTenant removes the ticket and its responses
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status TicketStatus) (int64, error)
}

// TicketResponseRepository stores ticket conversation messages
type TicketResponseRepository interface {
	Save(ctx context.Context, response *TicketResponse) error

	// FindByTicket returns responses oldest first
	FindByTicket(ctx context.Context, tenantID, ticketID uuid.UUID) ([]TicketResponse, error)
}
