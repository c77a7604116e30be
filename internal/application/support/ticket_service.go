package support

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/support"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketService handles support tickets and their conversations
type TicketService struct {
	ticketRepo     support.TicketRepository
	responseRepo   support.TicketResponseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(ticketRepo support.TicketRepository, responseRepo support.TicketResponseRepository, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{ticketRepo: ticketRepo, responseRepo: responseRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for workflow integration
func (s *TicketService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a ticket; an explicit status other than OPEN is applied after creation
func (s *TicketService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateTicketRequest) (*TicketResponse, error) {
	details, err := ticketDetails(req)
	if err != nil {
		return nil, err
	}
	ticket, err := support.NewTicket(tenantID, details)
	if err != nil {
		return nil, err
	}
	if createdBy != uuid.Nil {
		ticket.SetCreatedBy(createdBy)
	}
	if req.Status != "" {
		status, err := support.ParseTicketStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := ticket.ChangeStatus(status); err != nil {
			return nil, err
		}
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, ticket)

	response := ToTicketResponse(ticket)
	return &response, nil
}

// GetByID retrieves a ticket by ID
func (s *TicketService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToTicketResponse(ticket)
	return &response, nil
}

// List retrieves a page of tickets. The by-status, by-priority, by-customer and
// by-assignee views are filters on this list.
func (s *TicketService) List(ctx context.Context, tenantID uuid.UUID, filter TicketListFilter) ([]TicketResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		status, err := support.ParseTicketStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = string(status)
	}
	if filter.Priority != "" {
		priority, err := support.ParseTicketPriority(filter.Priority)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["priority"] = string(priority)
	}
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.AssignedTo != "" {
		domainFilter.Filters["assigned_to"] = filter.AssignedTo
	}

	tickets, err := s.ticketRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ticketRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTicketResponses(tickets), total, nil
}

// ListByStatus returns the first page of tickets in a status
func (s *TicketService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string) ([]TicketResponse, error) {
	items, _, err := s.List(ctx, tenantID, TicketListFilter{Status: status, PageSize: 100})
	return items, err
}

// ListByPriority returns the first page of tickets with a priority
func (s *TicketService) ListByPriority(ctx context.Context, tenantID uuid.UUID, priority string) ([]TicketResponse, error) {
	items, _, err := s.List(ctx, tenantID, TicketListFilter{Priority: priority, PageSize: 100})
	return items, err
}

// ListByCustomer returns the first page of tickets raised by a customer
func (s *TicketService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]TicketResponse, error) {
	items, _, err := s.List(ctx, tenantID, TicketListFilter{CustomerID: customerID.String(), PageSize: 100})
	return items, err
}

// ListByAssignee returns the first page of tickets assigned to an agent
func (s *TicketService) ListByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]TicketResponse, error) {
	items, _, err := s.List(ctx, tenantID, TicketListFilter{AssignedTo: userID.String(), PageSize: 100})
	return items, err
}

// Update replaces the ticket details and applies a status change when given
func (s *TicketService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTicketRequest) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	details, err := ticketDetails(CreateTicketRequest(req))
	if err != nil {
		return nil, err
	}
	if err := ticket.Update(details); err != nil {
		return nil, err
	}
	if req.Status != "" {
		status, err := support.ParseTicketStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := ticket.ChangeStatus(status); err != nil {
			return nil, err
		}
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, ticket)

	response := ToTicketResponse(ticket)
	return &response, nil
}

// UpdateStatus transitions the ticket status
func (s *TicketService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*TicketResponse, error) {
	parsed, err := support.ParseTicketStatus(status)
	if err != nil {
		return nil, err
	}
	ticket, err := s.ticketRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status != parsed {
		if err := ticket.ChangeStatus(parsed); err != nil {
			return nil, err
		}
		if err := s.ticketRepo.Save(ctx, ticket); err != nil {
			return nil, err
		}
		s.publish(ctx, ticket)
	}
	response := ToTicketResponse(ticket)
	return &response, nil
}

// Assign sets the responsible agent
func (s *TicketService) Assign(ctx context.Context, tenantID, id, userID uuid.UUID) (*TicketResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Assignee is required")
	}
	ticket, err := s.ticketRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	ticket.Assign(userID)
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, ticket)

	response := ToTicketResponse(ticket)
	return &response, nil
}

// Delete removes a ticket with its responses
func (s *TicketService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.ticketRepo.DeleteForTenant(ctx, tenantID, id)
}

// AddResponse appends a message; the first agent message stamps FirstResponseAt
func (s *TicketService) AddResponse(ctx context.Context, tenantID, ticketID uuid.UUID, req AddResponseRequest) (*ResponseResponse, error) {
	responderType, err := support.ParseResponderType(req.ResponderType)
	if err != nil {
		return nil, err
	}
	ticket, err := s.ticketRepo.FindByIDForTenant(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	resp, err := support.NewTicketResponse(ticket, req.Message, req.RespondedBy, responderType)
	if err != nil {
		return nil, err
	}
	if err := s.responseRepo.Save(ctx, resp); err != nil {
		return nil, err
	}

	if ticket.FirstResponseAt == nil && responderType == support.ResponderTypeAgent {
		ticket.RecordResponse(responderType, resp.CreatedAt)
		if err := s.ticketRepo.Save(ctx, ticket); err != nil {
			return nil, err
		}
	}

	out := toResponseResponse(resp)
	return &out, nil
}

// ListResponses returns the ticket conversation, oldest first
func (s *TicketService) ListResponses(ctx context.Context, tenantID, ticketID uuid.UUID) ([]ResponseResponse, error) {
	if _, err := s.ticketRepo.FindByIDForTenant(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.FindByTicket(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	return ToResponseResponses(responses), nil
}

// Count returns the number of tickets of the tenant
func (s *TicketService) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.ticketRepo.CountForTenant(ctx, tenantID, shared.Filter{})
}

// CountTickets implements the dashboard ticket counter
func (s *TicketService) CountTickets(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.Count(ctx, tenantID)
}

// CountOpenTickets counts tickets in status OPEN
func (s *TicketService) CountOpenTickets(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.ticketRepo.CountByStatus(ctx, tenantID, support.TicketStatusOpen)
}

func (s *TicketService) publish(ctx context.Context, ticket *support.Ticket) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, ticket); err != nil {
		s.logger.Warn("failed to publish ticket events", zap.String("ticket_id", ticket.ID.String()), zap.Error(err))
	}
}

func ticketDetails(req CreateTicketRequest) (support.TicketDetails, error) {
	priority, err := support.ParseTicketPriority(req.Priority)
	if err != nil {
		return support.TicketDetails{}, err
	}
	return support.TicketDetails{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    priority,
		Category:    req.Category,
		CustomerID:  req.CustomerID,
		AssignedTo:  req.AssignedTo,
		SLADeadline: req.SLADeadline,
	}, nil
}

func toDomainFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	f.Search = search
	return f
}
