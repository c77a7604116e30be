package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/support"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTicketRepository implements support.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByIDForTenant finds a ticket by ID within a tenant
func (r *GormTicketRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*support.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists tickets for a tenant
func (r *GormTicketRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]support.Ticket, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TicketModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(applyOrdering(query, filter, TicketSortFields), filter)

	var rows []models.TicketModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	tickets := make([]support.Ticket, len(rows))
	for i := range rows {
		tickets[i] = *rows[i].ToDomain()
	}
	return tickets, nil
}

// Save creates or updates a ticket
func (r *GormTicketRepository) Save(ctx context.Context, ticket *support.Ticket) error {
	return r.db.WithContext(ctx).Save(models.TicketModelFromDomain(ticket)).Error
}

// DeleteForTenant removes the ticket and its responses
func (r *GormTicketRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TicketResponseModel{}, "tenant_id = ? AND ticket_id = ?", tenantID, id).Error; err != nil {
			return err
		}
		return deleteResult(tx.Delete(&models.TicketModel{}, "tenant_id = ? AND id = ?", tenantID, id))
	})
}

// CountForTenant counts tickets matching the filter
func (r *GormTicketRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TicketModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts tickets with a status
func (r *GormTicketRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status support.TicketStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountTickets counts all tickets of a tenant for the dashboard
func (r *GormTicketRepository) CountTickets(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountForTenant(ctx, tenantID, shared.Filter{})
}

// CountOpenTickets counts tickets still in OPEN status for the dashboard
func (r *GormTicketRepository) CountOpenTickets(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountByStatus(ctx, tenantID, support.TicketStatusOpen)
}

func (r *GormTicketRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(subject) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		}
	}
	return query
}

// GormTicketResponseRepository implements support.TicketResponseRepository using GORM
type GormTicketResponseRepository struct {
	db *gorm.DB
}

// NewGormTicketResponseRepository creates a new GormTicketResponseRepository
func NewGormTicketResponseRepository(db *gorm.DB) *GormTicketResponseRepository {
	return &GormTicketResponseRepository{db: db}
}

// Save stores a response
func (r *GormTicketResponseRepository) Save(ctx context.Context, response *support.TicketResponse) error {
	return r.db.WithContext(ctx).Save(models.TicketResponseModelFromDomain(response)).Error
}

// FindByTicket returns the responses of a ticket, oldest first
func (r *GormTicketResponseRepository) FindByTicket(ctx context.Context, tenantID, ticketID uuid.UUID) ([]support.TicketResponse, error) {
	var rows []models.TicketResponseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND ticket_id = ?", tenantID, ticketID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	responses := make([]support.TicketResponse, len(rows))
	for i := range rows {
		responses[i] = *rows[i].ToDomain()
	}
	return responses, nil
}

var (
	_ support.TicketRepository         = (*GormTicketRepository)(nil)
	_ support.TicketResponseRepository = (*GormTicketResponseRepository)(nil)
)
