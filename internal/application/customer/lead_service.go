package customer

import (
	"context"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LeadService handles lead qualification, history and conversion
type LeadService struct {
	leadRepo       customer.LeadRepository
	historyRepo    customer.LeadHistoryRepository
	customerRepo   customer.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo customer.LeadRepository,
	historyRepo customer.LeadHistoryRepository,
	customerRepo customer.CustomerRepository,
	logger *zap.Logger,
) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		leadRepo:     leadRepo,
		historyRepo:  historyRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for workflow integration
func (s *LeadService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a lead and records the CREATED history row
func (s *LeadService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, changedBy string, req CreateLeadRequest) (*LeadResponse, error) {
	details, err := leadDetails(req)
	if err != nil {
		return nil, err
	}
	lead, err := customer.NewLead(tenantID, details)
	if err != nil {
		return nil, err
	}
	if createdBy != uuid.Nil {
		lead.SetCreatedBy(createdBy)
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, customer.NewLeadCreatedHistory(lead, changedBy)); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// GetByID retrieves a lead by ID
func (s *LeadService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToLeadResponse(lead)
	return &response, nil
}

// List retrieves a page of leads
func (s *LeadService) List(ctx context.Context, tenantID uuid.UUID, filter LeadListFilter) ([]LeadResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.AssignedTo != "" {
		domainFilter.Filters["assigned_to"] = filter.AssignedTo
	}

	leads, err := s.leadRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leadRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLeadResponses(leads), total, nil
}

// ListByStatus returns every lead in a status
func (s *LeadService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string) ([]LeadResponse, error) {
	parsed, err := customer.ParseLeadStatus(status)
	if err != nil {
		return nil, err
	}
	leads, err := s.leadRepo.FindByStatus(ctx, tenantID, parsed)
	if err != nil {
		return nil, err
	}
	return ToLeadResponses(leads), nil
}

// ListByAssignee returns the leads assigned to a user
func (s *LeadService) ListByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]LeadResponse, error) {
	leads, err := s.leadRepo.FindByAssignee(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return ToLeadResponses(leads), nil
}

// ListHighScore returns leads scoring at least minScore; a negative value means the default threshold
func (s *LeadService) ListHighScore(ctx context.Context, tenantID uuid.UUID, minScore int) ([]LeadResponse, error) {
	if minScore < 0 {
		minScore = customer.DefaultHighScoreThreshold
	}
	if minScore > customer.MaxLeadScore {
		return nil, shared.NewDomainError("INVALID_SCORE", "Lead score must be between 0 and 100")
	}
	leads, err := s.leadRepo.FindHighScore(ctx, tenantID, minScore)
	if err != nil {
		return nil, err
	}
	return ToLeadResponses(leads), nil
}

// Update replaces the lead details and records status, score and note changes
func (s *LeadService) Update(ctx context.Context, tenantID, id uuid.UUID, changedBy string, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	details, err := leadDetails(CreateLeadRequest(req))
	if err != nil {
		return nil, err
	}
	changes, err := lead.Update(details)
	if err != nil {
		return nil, err
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.recordChanges(ctx, lead, changedBy, changes...); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// UpdateStatus moves the lead to a status; history is written only on an actual change
func (s *LeadService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, changedBy, status string) (*LeadResponse, error) {
	parsed, err := customer.ParseLeadStatus(status)
	if err != nil {
		return nil, err
	}
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	change, err := lead.ChangeStatus(parsed)
	if err != nil {
		return nil, err
	}
	if change == nil {
		response := ToLeadResponse(lead)
		return &response, nil
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.recordChanges(ctx, lead, changedBy, *change); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// Convert creates a customer from the lead and marks the lead CONVERTED
func (s *LeadService) Convert(ctx context.Context, tenantID, id, convertedBy uuid.UUID, changedBy string) (*ConvertLeadResponse, error) {
	lead, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := lead.CanConvert(); err != nil {
		return nil, err
	}

	exists, err := s.customerRepo.ExistsByEmail(ctx, tenantID, lead.Email, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	firstName, lastName := lead.SplitName()
	c, err := customer.NewCustomer(tenantID, customer.CustomerDetails{
		FirstName: firstName,
		LastName:  lastName,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		JobTitle:  lead.Title,
		Address:   lead.Address,
		Source:    lead.Source,
	})
	if err != nil {
		return nil, err
	}
	if convertedBy != uuid.Nil {
		c.SetCreatedBy(convertedBy)
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	change, err := lead.MarkConverted(c.ID)
	if err != nil {
		return nil, err
	}
	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.recordChanges(ctx, lead, changedBy, *change); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, c)
	publishEvents(ctx, s.eventPublisher, s.logger, lead)

	s.logger.Info("lead converted",
		zap.String("lead_id", lead.ID.String()),
		zap.String("customer_id", c.ID.String()),
	)
	return &ConvertLeadResponse{Lead: ToLeadResponse(lead), Customer: ToCustomerResponse(c)}, nil
}

// Delete removes a lead together with its history
func (s *LeadService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.leadRepo.DeleteForTenant(ctx, tenantID, id)
}

// History returns the audit rows of a lead, newest first
func (s *LeadService) History(ctx context.Context, tenantID, id uuid.UUID) ([]LeadHistoryResponse, error) {
	if _, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	rows, err := s.historyRepo.FindByLead(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toLeadHistoryResponses(rows), nil
}

// Count returns the number of leads of a tenant
func (s *LeadService) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.leadRepo.CountForTenant(ctx, tenantID, shared.Filter{})
}

// CountLeads implements the dashboard lead counter
func (s *LeadService) CountLeads(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.Count(ctx, tenantID)
}

func (s *LeadService) recordChanges(ctx context.Context, lead *customer.Lead, changedBy string, changes ...customer.LeadChange) error {
	if len(changes) == 0 {
		return nil
	}
	rows := make([]*customer.LeadHistory, len(changes))
	for i, change := range changes {
		rows[i] = customer.NewLeadHistory(lead, change, changedBy)
	}
	return s.historyRepo.Save(ctx, rows...)
}

func leadDetails(req CreateLeadRequest) (customer.LeadDetails, error) {
	addr, err := req.Address.toDomain()
	if err != nil {
		return customer.LeadDetails{}, err
	}
	var status customer.LeadStatus
	if req.Status != "" {
		if status, err = customer.ParseLeadStatus(req.Status); err != nil {
			return customer.LeadDetails{}, err
		}
	}
	rating, err := customer.ParseLeadRating(req.Rating)
	if err != nil {
		return customer.LeadDetails{}, err
	}
	revenue := decimal.Zero
	if req.AnnualRevenue != nil {
		revenue = *req.AnnualRevenue
	}
	return customer.LeadDetails{
		Name:              req.Name,
		Title:             req.Title,
		Email:             req.Email,
		Phone:             req.Phone,
		Company:           req.Company,
		Source:            req.Source,
		Status:            status,
		Score:             req.Score,
		Notes:             req.Notes,
		AssignedTo:        req.AssignedTo,
		Website:           req.Website,
		Industry:          req.Industry,
		AnnualRevenue:     revenue,
		NumberOfEmployees: req.NumberOfEmployees,
		Rating:            rating,
		Address:           addr,
		LinkedIn:          req.LinkedIn,
		Twitter:           req.Twitter,
	}, nil
}
