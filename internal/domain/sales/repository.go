package sales

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Deal, error)

	// FindAllForTenant lists deals; Filters may carry "stage", "customer_id", "assigned_to"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Deal, error)

	FindByStage(ctx context.Context, tenantID uuid.UUID, stage DealStage) ([]Deal, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Deal, error)
	FindByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]Deal, error)

	// SearchByTitle matches the title case-insensitively
	SearchByTitle(ctx context.Context, tenantID uuid.UUID, query string) ([]Deal, error)

	Save(ctx context.Context, deal *Deal) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByStage(ctx context.Context, tenantID uuid.UUID, stage DealStage) (int64, error)

	// PipelineSummary groups deals by stage with count and value sum
	PipelineSummary(ctx context.Context, tenantID uuid.UUID) ([]StageSummary, error)
}

// FollowupRepository defines the interface for follow-up persistence
type FollowupRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Followup, error)

	// FindByDeal returns follow-ups for a deal, earliest first
	FindByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]Followup, error)

	// FindPending returns incomplete follow-ups, earliest first
	FindPending(ctx context.Context, tenantID uuid.UUID) ([]Followup, error)

	// FindPendingByUser returns incomplete follow-ups assigned to a user
	FindPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]Followup, error)

	// FindDueForReminder returns follow-ups of every tenant that are due at the
	// given time and have not been reminded yet
	FindDueForReminder(ctx context.Context, at time.Time, limit int) ([]Followup, error)

	Save(ctx context.Context, followup *Followup) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// OpportunityRepository defines the interface for opportunity persistence
type OpportunityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Opportunity, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Opportunity, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OpportunityStatus) ([]Opportunity, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Opportunity, error)

	// FindHighProbability returns opportunities with probability >= min, best first
	FindHighProbability(ctx context.Context, tenantID uuid.UUID, min int) ([]Opportunity, error)

	Save(ctx context.Context, opportunity *Opportunity) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
