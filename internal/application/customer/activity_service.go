package customer

import (
	"context"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityService logs calls, emails and meetings against customers and leads
type ActivityService struct {
	activityRepo customer.ActivityRepository
	customerRepo customer.CustomerRepository
	leadRepo     customer.LeadRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo customer.ActivityRepository, customerRepo customer.CustomerRepository, leadRepo customer.LeadRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, customerRepo: customerRepo, leadRepo: leadRepo}
}

// Create logs an activity; the referenced customer or lead must exist in the tenant
func (s *ActivityService) Create(ctx context.Context, tenantID uuid.UUID, performedBy string, req CreateActivityRequest) (*ActivityResponse, error) {
	activityType, err := customer.ParseActivityType(req.Type)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, *req.CustomerID); err != nil {
			return nil, err
		}
	}
	if req.LeadID != nil {
		if _, err := s.leadRepo.FindByIDForTenant(ctx, tenantID, *req.LeadID); err != nil {
			return nil, err
		}
	}
	if req.PerformedBy != "" {
		performedBy = req.PerformedBy
	}

	a, err := customer.NewActivity(tenantID, customer.ActivityInput{
		Type:            activityType,
		Description:     req.Description,
		CustomerID:      req.CustomerID,
		LeadID:          req.LeadID,
		PerformedBy:     performedBy,
		Phone:           req.Phone,
		DurationSeconds: req.DurationSeconds,
		Outcome:         req.Outcome,
		Direction:       customer.CallDirection(req.Direction),
		RecordingURL:    req.RecordingURL,
		StartTime:       req.StartTime,
	})
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	response := toActivityResponse(a)
	return &response, nil
}

// ListByCustomer returns activities of a customer, newest first
func (s *ActivityService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]ActivityResponse, error) {
	activities, err := s.activityRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return ToActivityResponses(activities), nil
}

// ListByLead returns activities of a lead, newest first
func (s *ActivityService) ListByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]ActivityResponse, error) {
	activities, err := s.activityRepo.FindByLead(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	return ToActivityResponses(activities), nil
}

// Delete removes an activity
func (s *ActivityService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.activityRepo.DeleteForTenant(ctx, tenantID, id)
}

// NoteService manages free-text notes on customers
type NoteService struct {
	noteRepo     customer.NoteRepository
	customerRepo customer.CustomerRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo customer.NoteRepository, customerRepo customer.CustomerRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo, customerRepo: customerRepo}
}

// Create attaches a note to a customer of the tenant
func (s *NoteService) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req CreateNoteRequest) (*NoteResponse, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		return nil, err
	}
	n, err := customer.NewNote(tenantID, req.CustomerID, req.Content, createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := toNoteResponse(n)
	return &response, nil
}

// ListByCustomer returns notes of a customer, newest first
func (s *NoteService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]NoteResponse, error) {
	notes, err := s.noteRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return ToNoteResponses(notes), nil
}

// Update replaces the note content
func (s *NoteService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateNoteRequest) (*NoteResponse, error) {
	n, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := n.UpdateContent(req.Content); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := toNoteResponse(n)
	return &response, nil
}

// Delete removes a note
func (s *NoteService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.noteRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("NOT_FOUND", "Note not found")
		}
		return err
	}
	return s.noteRepo.DeleteForTenant(ctx, tenantID, id)
}
