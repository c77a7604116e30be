package marketing

import (
	"context"

	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CampaignService manages marketing campaigns
type CampaignService struct {
	campaignRepo   marketing.CampaignRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(campaignRepo marketing.CampaignRepository, logger *zap.Logger) *CampaignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{campaignRepo: campaignRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for workflow integration
func (s *CampaignService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft campaign
func (s *CampaignService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateCampaignRequest) (*CampaignResponse, error) {
	c, err := marketing.NewCampaign(tenantID, campaignDetails(req))
	if err != nil {
		return nil, err
	}
	if createdBy != uuid.Nil {
		c.SetCreatedBy(createdBy)
	}
	if err := s.campaignRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	response := ToCampaignResponse(c)
	return &response, nil
}

// GetByID retrieves a campaign by ID
func (s *CampaignService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	c, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCampaignResponse(c)
	return &response, nil
}

// List retrieves a page of campaigns
func (s *CampaignService) List(ctx context.Context, tenantID uuid.UUID, filter CampaignListFilter) ([]CampaignResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	campaigns, err := s.campaignRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.campaignRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCampaignResponses(campaigns), total, nil
}

// ListByStatus returns the first page of campaigns in a status
func (s *CampaignService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status string) ([]CampaignResponse, error) {
	parsed, err := marketing.ParseCampaignStatus(status)
	if err != nil {
		return nil, err
	}
	items, _, err := s.List(ctx, tenantID, CampaignListFilter{Status: string(parsed), PageSize: 100})
	return items, err
}

// Update replaces the campaign details
func (s *CampaignService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCampaignRequest) (*CampaignResponse, error) {
	c, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(campaignDetails(CreateCampaignRequest(req))); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(c)
	return &response, nil
}

// UpdateStatus transitions the campaign
func (s *CampaignService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*CampaignResponse, error) {
	parsed, err := marketing.ParseCampaignStatus(status)
	if err != nil {
		return nil, err
	}
	c, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != parsed {
		if err := c.ChangeStatus(parsed); err != nil {
			return nil, err
		}
		if err := s.campaignRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		s.publish(ctx, c)
	}
	response := ToCampaignResponse(c)
	return &response, nil
}

// RecordMetrics adds sent, open and click counts
func (s *CampaignService) RecordMetrics(ctx context.Context, tenantID, id uuid.UUID, req RecordMetricsRequest) (*CampaignResponse, error) {
	c, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.RecordMetrics(req.Sent, req.Opened, req.Clicked); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(c)
	return &response, nil
}

// Delete removes a campaign
func (s *CampaignService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.campaignRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *CampaignService) publish(ctx context.Context, c *marketing.Campaign) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, c); err != nil {
		s.logger.Warn("failed to publish campaign events", zap.String("campaign_id", c.ID.String()), zap.Error(err))
	}
}

func campaignDetails(req CreateCampaignRequest) marketing.CampaignDetails {
	budget := decimal.Zero
	if req.Budget != nil {
		budget = *req.Budget
	}
	return marketing.CampaignDetails{
		Name:           req.Name,
		Description:    req.Description,
		Type:           marketing.CampaignType(req.Type),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Budget:         budget,
		Goal:           req.Goal,
		TargetAudience: req.TargetAudience,
	}
}
