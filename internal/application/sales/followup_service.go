package sales

import (
	"context"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
)

// FollowupService schedules and completes deal follow-ups
type FollowupService struct {
	followupRepo sales.FollowupRepository
	dealRepo     sales.DealRepository
}

// NewFollowupService creates a new FollowupService
func NewFollowupService(followupRepo sales.FollowupRepository, dealRepo sales.DealRepository) *FollowupService {
	return &FollowupService{followupRepo: followupRepo, dealRepo: dealRepo}
}

// Create schedules a follow-up on a deal of the tenant
func (s *FollowupService) Create(ctx context.Context, tenantID uuid.UUID, req CreateFollowupRequest) (*FollowupResponse, error) {
	followupType, err := sales.ParseFollowupType(req.Type)
	if err != nil {
		return nil, err
	}
	if _, err := s.dealRepo.FindByIDForTenant(ctx, tenantID, req.DealID); err != nil {
		return nil, err
	}
	f, err := sales.NewFollowup(tenantID, req.DealID, followupType, req.ScheduledAt.UTC(), req.Notes, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if err := s.followupRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	response := toFollowupResponse(f)
	return &response, nil
}

// ListByDeal returns follow-ups of a deal, earliest first
func (s *FollowupService) ListByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]FollowupResponse, error) {
	followups, err := s.followupRepo.FindByDeal(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}
	return ToFollowupResponses(followups), nil
}

// ListPending returns incomplete follow-ups, earliest first
func (s *FollowupService) ListPending(ctx context.Context, tenantID uuid.UUID) ([]FollowupResponse, error) {
	followups, err := s.followupRepo.FindPending(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToFollowupResponses(followups), nil
}

// ListPendingByUser returns incomplete follow-ups assigned to a user
func (s *FollowupService) ListPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]FollowupResponse, error) {
	followups, err := s.followupRepo.FindPendingByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return ToFollowupResponses(followups), nil
}

// Complete marks a follow-up done; completing twice is a no-op
func (s *FollowupService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*FollowupResponse, error) {
	f, err := s.followupRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !f.Completed {
		f.Complete()
		if err := s.followupRepo.Save(ctx, f); err != nil {
			return nil, err
		}
	}
	response := toFollowupResponse(f)
	return &response, nil
}

// Delete removes a follow-up
func (s *FollowupService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.followupRepo.DeleteForTenant(ctx, tenantID, id)
}
