package marketing

import (
	"context"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const evaluatePageSize = 500

// CustomerLister pages through the customers of a tenant
type CustomerLister interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Customer, error)
}

// SegmentService manages audience segments
type SegmentService struct {
	segmentRepo marketing.SegmentRepository
	customers   CustomerLister
}

// NewSegmentService creates a new SegmentService
func NewSegmentService(segmentRepo marketing.SegmentRepository, customers CustomerLister) *SegmentService {
	return &SegmentService{segmentRepo: segmentRepo, customers: customers}
}

// Create creates a segment after validating its criteria
func (s *SegmentService) Create(ctx context.Context, tenantID uuid.UUID, req SegmentRequest) (*SegmentResponse, error) {
	seg, err := marketing.NewSegment(tenantID, req.Name, req.Description, req.Criteria)
	if err != nil {
		return nil, err
	}
	if err := s.segmentRepo.Save(ctx, seg); err != nil {
		return nil, err
	}
	response := toSegmentResponse(seg)
	return &response, nil
}

// GetByID retrieves a segment by ID
func (s *SegmentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SegmentResponse, error) {
	seg, err := s.segmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := toSegmentResponse(seg)
	return &response, nil
}

// List returns all segments of the tenant
func (s *SegmentService) List(ctx context.Context, tenantID uuid.UUID) ([]SegmentResponse, error) {
	segments, err := s.segmentRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToSegmentResponses(segments), nil
}

// Update replaces the segment definition
func (s *SegmentService) Update(ctx context.Context, tenantID, id uuid.UUID, req SegmentRequest) (*SegmentResponse, error) {
	seg, err := s.segmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := seg.Update(req.Name, req.Description, req.Criteria); err != nil {
		return nil, err
	}
	if err := s.segmentRepo.Save(ctx, seg); err != nil {
		return nil, err
	}
	response := toSegmentResponse(seg)
	return &response, nil
}

// Delete removes a segment
func (s *SegmentService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.segmentRepo.DeleteForTenant(ctx, tenantID, id)
}

// Evaluate counts the tenant customers matching the criteria and stores the count
func (s *SegmentService) Evaluate(ctx context.Context, tenantID, id uuid.UUID) (*SegmentResponse, error) {
	seg, err := s.segmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	criteria, err := marketing.ParseCriteria(seg.Criteria)
	if err != nil {
		return nil, err
	}

	var members int64
	filter := shared.DefaultFilter()
	filter.PageSize = evaluatePageSize
	filter.OrderBy = "id"
	filter.OrderDir = "asc"
	for {
		page, err := s.customers.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		for i := range page {
			if criteria.Matches(&page[i]) {
				members++
			}
		}
		if len(page) < evaluatePageSize {
			break
		}
		filter.Page++
	}

	seg.SetMemberCount(members)
	if err := s.segmentRepo.Save(ctx, seg); err != nil {
		return nil, err
	}
	response := toSegmentResponse(seg)
	return &response, nil
}
