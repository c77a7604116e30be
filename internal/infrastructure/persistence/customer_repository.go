package persistence

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email within a tenant
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*customer.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all customers for a tenant
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Customer, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(applyOrdering(query, filter, CustomerSortFields), filter)
	return r.find(query)
}

// SearchByName matches first or last name case-insensitively
func (r *GormCustomerRepository) SearchByName(ctx context.Context, tenantID uuid.UUID, name string) ([]customer.Customer, error) {
	pattern := likePattern(name)
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)", pattern, pattern).
		Order("last_name ASC, first_name ASC")
	return r.find(query)
}

// FindByStatus finds customers by status for a tenant
func (r *GormCustomerRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status customer.CustomerStatus) ([]customer.Customer, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("created_at DESC")
	return r.find(query)
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(c)).Error
}

// DeleteForTenant deletes a customer within a tenant
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

// CountForTenant counts customers for a tenant matching the filter
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a customer with the given email exists in the tenant
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(email))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountCustomers counts all customers of a tenant for the dashboard
func (r *GormCustomerRepository) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountForTenant(ctx, tenantID, shared.Filter{})
}

func (r *GormCustomerRepository) find(query *gorm.DB) ([]customer.Customer, error) {
	var rows []models.CustomerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	customers := make([]customer.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "company":
			query = query.Where("company = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		}
	}
	return query
}

// GormLeadRepository implements customer.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByIDForTenant finds a lead by ID within a tenant
func (r *GormLeadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists leads for a tenant
func (r *GormLeadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Lead, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(applyOrdering(query, filter, LeadSortFields), filter)
	return r.find(query)
}

// FindByStatus lists leads with the given status
func (r *GormLeadRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status customer.LeadStatus) ([]customer.Lead, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("created_at DESC"))
}

// FindByAssignee lists leads assigned to a user
func (r *GormLeadRepository) FindByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]customer.Lead, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND assigned_to = ?", tenantID, userID).
		Order("created_at DESC"))
}

// FindHighScore returns leads scoring at least minScore, best first
func (r *GormLeadRepository) FindHighScore(ctx context.Context, tenantID uuid.UUID, minScore int) ([]customer.Lead, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND score >= ?", tenantID, minScore).
		Order("score DESC, created_at ASC"))
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *customer.Lead) error {
	return r.db.WithContext(ctx).Save(models.LeadModelFromDomain(lead)).Error
}

// DeleteForTenant removes the lead together with its history rows
func (r *GormLeadRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.LeadHistoryModel{}, "tenant_id = ? AND lead_id = ?", tenantID, id).Error; err != nil {
			return err
		}
		return deleteResult(tx.Delete(&models.LeadModel{}, "tenant_id = ? AND id = ?", tenantID, id))
	})
}

// CountForTenant counts leads matching the filter
func (r *GormLeadRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLeads counts all leads of a tenant for the dashboard
func (r *GormLeadRepository) CountLeads(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountForTenant(ctx, tenantID, shared.Filter{})
}

func (r *GormLeadRepository) find(query *gorm.DB) ([]customer.Lead, error) {
	var rows []models.LeadModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	leads := make([]customer.Lead, len(rows))
	for i := range rows {
		leads[i] = *rows[i].ToDomain()
	}
	return leads, nil
}

func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "rating":
			query = query.Where("rating = ?", value)
		case "min_score":
			query = query.Where("score >= ?", value)
		case "converted":
			query = query.Where("is_converted = ?", value)
		}
	}
	return query
}

// GormLeadHistoryRepository implements customer.LeadHistoryRepository using GORM
type GormLeadHistoryRepository struct {
	db *gorm.DB
}

// NewGormLeadHistoryRepository creates a new GormLeadHistoryRepository
func NewGormLeadHistoryRepository(db *gorm.DB) *GormLeadHistoryRepository {
	return &GormLeadHistoryRepository{db: db}
}

// Save appends history entries
func (r *GormLeadHistoryRepository) Save(ctx context.Context, entries ...*customer.LeadHistory) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.LeadHistoryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.LeadHistoryModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

// FindByLead returns the history of a lead, newest first
func (r *GormLeadHistoryRepository) FindByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]customer.LeadHistory, error) {
	var rows []models.LeadHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		Order("changed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	history := make([]customer.LeadHistory, len(rows))
	for i := range rows {
		history[i] = *rows[i].ToDomain()
	}
	return history, nil
}

// GormActivityRepository implements customer.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByCustomer returns activities for a customer, newest first
func (r *GormActivityRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]customer.Activity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("start_time DESC"))
}

// FindByLead returns activities for a lead, newest first
func (r *GormActivityRepository) FindByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]customer.Activity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND lead_id = ?", tenantID, leadID).
		Order("start_time DESC"))
}

// FindByIDForTenant finds an activity by ID within a tenant
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Activity, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *customer.Activity) error {
	return r.db.WithContext(ctx).Save(models.ActivityModelFromDomain(activity)).Error
}

// DeleteForTenant deletes an activity within a tenant
func (r *GormActivityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.ActivityModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormActivityRepository) find(query *gorm.DB) ([]customer.Activity, error) {
	var rows []models.ActivityModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	activities := make([]customer.Activity, len(rows))
	for i := range rows {
		activities[i] = *rows[i].ToDomain()
	}
	return activities, nil
}

// GormNoteRepository implements customer.NoteRepository using GORM
type GormNoteRepository struct {
	db *gorm.DB
}

// NewGormNoteRepository creates a new GormNoteRepository
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db}
}

// FindByCustomer returns notes for a customer, newest first
func (r *GormNoteRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]customer.Note, error) {
	var rows []models.NoteModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	notes := make([]customer.Note, len(rows))
	for i := range rows {
		notes[i] = *rows[i].ToDomain()
	}
	return notes, nil
}

// FindByIDForTenant finds a note by ID within a tenant
func (r *GormNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Note, error) {
	var model models.NoteModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a note
func (r *GormNoteRepository) Save(ctx context.Context, note *customer.Note) error {
	return r.db.WithContext(ctx).Save(models.NoteModelFromDomain(note)).Error
}

// DeleteForTenant deletes a note within a tenant
func (r *GormNoteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.NoteModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

var (
	_ customer.CustomerRepository    = (*GormCustomerRepository)(nil)
	_ customer.LeadRepository        = (*GormLeadRepository)(nil)
	_ customer.LeadHistoryRepository = (*GormLeadHistoryRepository)(nil)
	_ customer.ActivityRepository    = (*GormActivityRepository)(nil)
	_ customer.NoteRepository        = (*GormNoteRepository)(nil)
)
