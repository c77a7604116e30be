package marketing

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TemplateService manages email templates
type TemplateService struct {
	templateRepo marketing.EmailTemplateRepository
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo marketing.EmailTemplateRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo}
}

// ListActive returns the active templates
func (s *TemplateService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]TemplateResponse, error) {
	templates, err := s.templateRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToTemplateResponses(templates), nil
}

// ListByCategory returns templates in a category
func (s *TemplateService) ListByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]TemplateResponse, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category is required")
	}
	templates, err := s.templateRepo.FindByCategory(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	return ToTemplateResponses(templates), nil
}

// Create creates a template
func (s *TemplateService) Create(ctx context.Context, tenantID uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	t, err := marketing.NewEmailTemplate(tenantID, templateDetails(req))
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	response := toTemplateResponse(t)
	return &response, nil
}

// Update replaces the template fields
func (s *TemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.Update(templateDetails(req)); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	response := toTemplateResponse(t)
	return &response, nil
}

// Render substitutes placeholders in a stored template
func (s *TemplateService) Render(ctx context.Context, tenantID, id uuid.UUID, values map[string]string) (*marketing.RenderedEmail, error) {
	t, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	rendered := t.Render(values)
	return &rendered, nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.templateRepo.DeleteForTenant(ctx, tenantID, id)
}

func templateDetails(req TemplateRequest) marketing.EmailTemplateDetails {
	return marketing.EmailTemplateDetails{
		Name:     req.Name,
		Subject:  req.Subject,
		Body:     req.Body,
		Category: req.Category,
		Active:   req.Active,
	}
}
