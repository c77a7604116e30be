package sales

import (
	"context"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errCustomerNotFound = shared.NewDomainError("NOT_FOUND", "Customer not found")

// CustomerDirectory answers whether a customer exists in a tenant
type CustomerDirectory interface {
	Exists(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error)
}

// DealService handles the deal pipeline
type DealService struct {
	dealRepo       sales.DealRepository
	customers      CustomerDirectory
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDealService creates a new DealService
func NewDealService(dealRepo sales.DealRepository, customers CustomerDirectory, logger *zap.Logger) *DealService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DealService{dealRepo: dealRepo, customers: customers, logger: logger}
}

// SetEventPublisher sets the event publisher for workflow integration
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a deal for an existing customer
func (s *DealService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateDealRequest) (*DealResponse, error) {
	details, err := dealDetails(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCustomer(ctx, tenantID, details.CustomerID); err != nil {
		return nil, err
	}

	deal, err := sales.NewDeal(tenantID, details)
	if err != nil {
		return nil, err
	}
	if createdBy != uuid.Nil {
		deal.SetCreatedBy(createdBy)
	}
	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}
	s.publish(ctx, deal)

	response := ToDealResponse(deal)
	return &response, nil
}

// GetByID retrieves a deal by ID
func (s *DealService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToDealResponse(deal)
	return &response, nil
}

// List retrieves a page of deals
func (s *DealService) List(ctx context.Context, tenantID uuid.UUID, filter DealListFilter) ([]DealResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.CustomerID != "" {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.AssignedTo != "" {
		domainFilter.Filters["assigned_to"] = filter.AssignedTo
	}

	deals, err := s.dealRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.dealRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDealResponses(deals), total, nil
}

// ListByStage returns the deals in one pipeline stage
func (s *DealService) ListByStage(ctx context.Context, tenantID uuid.UUID, stage string) ([]DealResponse, error) {
	parsed, err := sales.ParseDealStage(stage)
	if err != nil {
		return nil, err
	}
	deals, err := s.dealRepo.FindByStage(ctx, tenantID, parsed)
	if err != nil {
		return nil, err
	}
	return ToDealResponses(deals), nil
}

// ListByCustomer returns the deals of a customer
func (s *DealService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]DealResponse, error) {
	deals, err := s.dealRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return ToDealResponses(deals), nil
}

// ListByAssignee returns the deals assigned to a user
func (s *DealService) ListByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]DealResponse, error) {
	deals, err := s.dealRepo.FindByAssignee(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return ToDealResponses(deals), nil
}

// Search matches deal titles case-insensitively
func (s *DealService) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]DealResponse, error) {
	if query == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search query is required")
	}
	deals, err := s.dealRepo.SearchByTitle(ctx, tenantID, query)
	if err != nil {
		return nil, err
	}
	return ToDealResponses(deals), nil
}

// Update replaces the deal details; a moved customer must exist
func (s *DealService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	details, err := dealDetails(CreateDealRequest(req))
	if err != nil {
		return nil, err
	}
	if details.CustomerID != deal.CustomerID {
		if err := s.ensureCustomer(ctx, tenantID, details.CustomerID); err != nil {
			return nil, err
		}
	}
	if err := deal.Update(details); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}
	s.publish(ctx, deal)

	response := ToDealResponse(deal)
	return &response, nil
}

// UpdateStage moves the deal to another stage
func (s *DealService) UpdateStage(ctx context.Context, tenantID, id uuid.UUID, stage string) (*DealResponse, error) {
	parsed, err := sales.ParseDealStage(stage)
	if err != nil {
		return nil, err
	}
	deal, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if deal.Stage != parsed {
		if err := deal.MoveToStage(parsed); err != nil {
			return nil, err
		}
		if err := s.dealRepo.Save(ctx, deal); err != nil {
			return nil, err
		}
		s.publish(ctx, deal)
	}
	response := ToDealResponse(deal)
	return &response, nil
}

// Delete removes a deal
func (s *DealService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.dealRepo.DeleteForTenant(ctx, tenantID, id)
}

// Pipeline returns count and value per stage, in pipeline order, including empty stages
func (s *DealService) Pipeline(ctx context.Context, tenantID uuid.UUID) ([]StageSummaryResponse, error) {
	rows, err := s.dealRepo.PipelineSummary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byStage := make(map[sales.DealStage]sales.StageSummary, len(rows))
	for _, r := range rows {
		byStage[r.Stage] = r
	}
	out := make([]StageSummaryResponse, 0, len(sales.AllDealStages()))
	for _, stage := range sales.AllDealStages() {
		r, ok := byStage[stage]
		if !ok {
			r = sales.StageSummary{Stage: stage, TotalValue: decimal.Zero}
		}
		out = append(out, StageSummaryResponse{Stage: string(stage), Count: r.Count, TotalValue: r.TotalValue})
	}
	return out, nil
}

// CountDeals implements the dashboard deal counter
func (s *DealService) CountDeals(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.dealRepo.CountForTenant(ctx, tenantID, shared.Filter{})
}

// CountClosedWonDeals counts deals in CLOSED_WON
func (s *DealService) CountClosedWonDeals(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.dealRepo.CountByStage(ctx, tenantID, sales.DealStageClosedWon)
}

// CountByStage counts deals in any stage
func (s *DealService) CountByStage(ctx context.Context, tenantID uuid.UUID, stage string) (int64, error) {
	parsed, err := sales.ParseDealStage(stage)
	if err != nil {
		return 0, err
	}
	return s.dealRepo.CountByStage(ctx, tenantID, parsed)
}

// OpenPipelineValue sums the value of deals that are not closed
func (s *DealService) OpenPipelineValue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	rows, err := s.dealRepo.PipelineSummary(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	total := decimal.Zero
	for _, r := range rows {
		if !r.Stage.IsClosed() {
			total = total.Add(r.TotalValue)
		}
	}
	value, _ := total.Float64()
	return value, nil
}

func (s *DealService) ensureCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	ok, err := s.customers.Exists(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if !ok {
		return errCustomerNotFound
	}
	return nil
}

func (s *DealService) publish(ctx context.Context, deal *sales.Deal) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, deal); err != nil {
		s.logger.Warn("failed to publish deal events", zap.String("deal_id", deal.ID.String()), zap.Error(err))
	}
}

func dealDetails(req CreateDealRequest) (sales.DealDetails, error) {
	var stage sales.DealStage
	if req.Stage != "" {
		parsed, err := sales.ParseDealStage(req.Stage)
		if err != nil {
			return sales.DealDetails{}, err
		}
		stage = parsed
	}
	priority, err := sales.ParsePriority(req.Priority)
	if err != nil {
		return sales.DealDetails{}, err
	}
	value := decimal.Zero
	if req.Value != nil {
		value = *req.Value
	}
	return sales.DealDetails{
		Title:             req.Title,
		Description:       req.Description,
		Value:             value,
		Stage:             stage,
		CustomerID:        req.CustomerID,
		AssignedTo:        req.AssignedTo,
		Priority:          priority,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Type:              sales.ParseDealType(req.Type),
		LeadSource:        req.LeadSource,
		NextStep:          req.NextStep,
		Probability:       req.Probability,
		CampaignSource:    req.CampaignSource,
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
