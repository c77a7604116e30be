package sales

import (
	"context"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityService manages sales opportunities
type OpportunityService struct {
	opportunityRepo sales.OpportunityRepository
	customers       CustomerDirectory
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(opportunityRepo sales.OpportunityRepository, customers CustomerDirectory) *OpportunityService {
	return &OpportunityService{opportunityRepo: opportunityRepo, customers: customers}
}

// Create creates an opportunity; a referenced customer must exist
func (s *OpportunityService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOpportunityRequest) (*OpportunityResponse, error) {
	details, err := s.opportunityDetails(ctx, tenantID, req, nil)
	if err != nil {
		return nil, err
	}
	o, err := sales.NewOpportunity(tenantID, details)
	if err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	response := toOpportunityResponse(o)
	return &response, nil
}

// GetByID retrieves an opportunity by ID
func (s *OpportunityService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OpportunityResponse, error) {
	o, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := toOpportunityResponse(o)
	return &response, nil
}

// List retrieves a page of opportunities
func (s *OpportunityService) List(ctx context.Context, tenantID uuid.UUID, filter OpportunityListFilter) ([]OpportunityResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	items, err := s.opportunityRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.opportunityRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOpportunityResponses(items), total, nil
}

// ListByStatus returns opportunities in a status
func (s *OpportunityService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string) ([]OpportunityResponse, error) {
	parsed, err := sales.ParseOpportunityStatus(status)
	if err != nil {
		return nil, err
	}
	items, err := s.opportunityRepo.FindByStatus(ctx, tenantID, parsed)
	if err != nil {
		return nil, err
	}
	return ToOpportunityResponses(items), nil
}

// ListByCustomer returns opportunities of a customer
func (s *OpportunityService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]OpportunityResponse, error) {
	items, err := s.opportunityRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return ToOpportunityResponses(items), nil
}

// ListHighProbability returns opportunities at or above minProbability; a negative value means the default threshold
func (s *OpportunityService) ListHighProbability(ctx context.Context, tenantID uuid.UUID, minProbability int) ([]OpportunityResponse, error) {
	if minProbability < 0 {
		minProbability = sales.DefaultHighProbability
	}
	items, err := s.opportunityRepo.FindHighProbability(ctx, tenantID, minProbability)
	if err != nil {
		return nil, err
	}
	return ToOpportunityResponses(items), nil
}

// Update replaces the opportunity details
func (s *OpportunityService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateOpportunityRequest) (*OpportunityResponse, error) {
	o, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	details, err := s.opportunityDetails(ctx, tenantID, CreateOpportunityRequest(req), o.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := o.Update(details); err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	response := toOpportunityResponse(o)
	return &response, nil
}

// UpdateStatus changes only the status
func (s *OpportunityService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*OpportunityResponse, error) {
	parsed, err := sales.ParseOpportunityStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := o.SetStatus(parsed); err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	response := toOpportunityResponse(o)
	return &response, nil
}

// Delete removes an opportunity
func (s *OpportunityService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.opportunityRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *OpportunityService) opportunityDetails(ctx context.Context, tenantID uuid.UUID, req CreateOpportunityRequest, current *uuid.UUID) (sales.OpportunityDetails, error) {
	var status sales.OpportunityStatus
	if req.Status != "" {
		parsed, err := sales.ParseOpportunityStatus(req.Status)
		if err != nil {
			return sales.OpportunityDetails{}, err
		}
		status = parsed
	}
	if req.CustomerID != nil && (current == nil || *current != *req.CustomerID) {
		ok, err := s.customers.Exists(ctx, tenantID, *req.CustomerID)
		if err != nil {
			return sales.OpportunityDetails{}, err
		}
		if !ok {
			return sales.OpportunityDetails{}, errCustomerNotFound
		}
	}
	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}
	return sales.OpportunityDetails{
		Name:        req.Name,
		Amount:      amount,
		Probability: req.Probability,
		Source:      req.Source,
		CustomerID:  req.CustomerID,
		AssignedTo:  req.AssignedTo,
		Status:      status,
	}, nil
}
