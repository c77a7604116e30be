package customer

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   customer.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a customer; the email must be unique within the tenant
func (s *CustomerService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	details, err := customerDetails(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, tenantID, details.Email, nil); err != nil {
		return nil, err
	}

	c, err := customer.NewCustomer(tenantID, details)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		status, err := customer.ParseCustomerStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := c.SetStatus(status); err != nil {
			return nil, err
		}
	}
	if createdBy != uuid.Nil {
		c.SetCreatedBy(createdBy)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, c)

	response := ToCustomerResponse(c)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// SearchByName matches first or last name case-insensitively
func (s *CustomerService) SearchByName(ctx context.Context, tenantID uuid.UUID, name string) ([]CustomerResponse, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search name is required")
	}
	customers, err := s.customerRepo.SearchByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// ListByStatus returns every customer with the given status
func (s *CustomerService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string) ([]CustomerResponse, error) {
	parsed, err := customer.ParseCustomerStatus(status)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.FindByStatus(ctx, tenantID, parsed)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// Update replaces the mutable customer fields; a changed email is re-checked for uniqueness
func (s *CustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	details, err := customerDetails(CreateCustomerRequest(req))
	if err != nil {
		return nil, err
	}
	if details.Email != c.Email {
		if err := s.ensureEmailAvailable(ctx, tenantID, details.Email, &c.ID); err != nil {
			return nil, err
		}
	}
	if err := c.Update(details); err != nil {
		return nil, err
	}
	if req.Status != "" {
		status, err := customer.ParseCustomerStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := c.SetStatus(status); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, c)

	response := ToCustomerResponse(c)
	return &response, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.customerRepo.DeleteForTenant(ctx, tenantID, id)
}

// Count returns the number of customers of a tenant
func (s *CustomerService) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.customerRepo.CountForTenant(ctx, tenantID, shared.Filter{})
}

// CountCustomers implements the dashboard customer counter
func (s *CustomerService) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.Count(ctx, tenantID)
}

// Exists reports whether the customer belongs to the tenant
func (s *CustomerService) Exists(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	_, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err == nil {
		return true, nil
	}
	if shared.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (s *CustomerService) ensureEmailAvailable(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) error {
	exists, err := s.customerRepo.ExistsByEmail(ctx, tenantID, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}
	return nil
}

func customerDetails(req CreateCustomerRequest) (customer.CustomerDetails, error) {
	addr, err := req.Address.toDomain()
	if err != nil {
		return customer.CustomerDetails{}, err
	}
	return customer.CustomerDetails{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Company:   req.Company,
		JobTitle:  req.JobTitle,
		Address:   addr,
		Source:    req.Source,
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

// publishEvents hands pending aggregate events to the bus; failures are logged only
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, publisher, aggregate); err != nil {
		logger.Warn("failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Error(err),
		)
	}
}
