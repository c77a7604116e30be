package marketing

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)
	// FindAllForTenant lists campaigns; Filters may carry "status" and "type"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Campaign, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, campaign *Campaign) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// EmailTemplateRepository stores email templates
type EmailTemplateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*EmailTemplate, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]EmailTemplate, error)
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]EmailTemplate, error)
	Save(ctx context.Context, template *EmailTemplate) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SegmentRepository stores audience segments
type SegmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Segment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Segment, error)
	Save(ctx context.Context, segment *Segment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
