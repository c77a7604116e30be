package persistence

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDealRepository implements sales.DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByIDForTenant finds a deal by ID within a tenant
func (r *GormDealRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Deal, error) {
	var model models.DealModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists deals for a tenant
func (r *GormDealRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Deal, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DealModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(applyOrdering(query, filter, DealSortFields), filter)
	return r.find(query)
}

// FindByStage lists deals in a pipeline stage
func (r *GormDealRepository) FindByStage(ctx context.Context, tenantID uuid.UUID, stage sales.DealStage) ([]sales.Deal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND stage = ?", tenantID, stage).
		Order("created_at DESC"))
}

// FindByCustomer lists deals of a customer
func (r *GormDealRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]sales.Deal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC"))
}

// FindByAssignee lists deals assigned to a user
func (r *GormDealRepository) FindByAssignee(ctx context.Context, tenantID, userID uuid.UUID) ([]sales.Deal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND assigned_to = ?", tenantID, userID).
		Order("created_at DESC"))
}

// SearchByTitle matches the title case-insensitively
func (r *GormDealRepository) SearchByTitle(ctx context.Context, tenantID uuid.UUID, query string) ([]sales.Deal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(title) LIKE ?", tenantID, likePattern(query)).
		Order("title ASC"))
}

// Save creates or updates a deal
func (r *GormDealRepository) Save(ctx context.Context, deal *sales.Deal) error {
	return r.db.WithContext(ctx).Save(models.DealModelFromDomain(deal)).Error
}

// DeleteForTenant removes a deal and its follow-ups
func (r *GormDealRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.FollowupModel{}, "tenant_id = ? AND deal_id = ?", tenantID, id).Error; err != nil {
			return err
		}
		return deleteResult(tx.Delete(&models.DealModel{}, "tenant_id = ? AND id = ?", tenantID, id))
	})
}

// CountForTenant counts deals matching the filter
func (r *GormDealRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DealModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStage counts deals in a stage
func (r *GormDealRepository) CountByStage(ctx context.Context, tenantID uuid.UUID, stage sales.DealStage) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DealModel{}).
		Where("tenant_id = ? AND stage = ?", tenantID, stage).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PipelineSummary groups deals by stage with count and total value
func (r *GormDealRepository) PipelineSummary(ctx context.Context, tenantID uuid.UUID) ([]sales.StageSummary, error) {
	var rows []struct {
		Stage      sales.DealStage
		Count      int64
		TotalValue decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.DealModel{}).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total_value").
		Where("tenant_id = ?", tenantID).
		Group("stage").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byStage := make(map[sales.DealStage]sales.StageSummary, len(rows))
	for _, row := range rows {
		byStage[row.Stage] = sales.StageSummary{Stage: row.Stage, Count: row.Count, TotalValue: row.TotalValue}
	}
	summary := make([]sales.StageSummary, 0, len(sales.AllDealStages()))
	for _, stage := range sales.AllDealStages() {
		s, ok := byStage[stage]
		if !ok {
			s = sales.StageSummary{Stage: stage, TotalValue: decimal.Zero}
		}
		summary = append(summary, s)
	}
	return summary, nil
}

// CountDeals counts all deals of a tenant for the dashboard
func (r *GormDealRepository) CountDeals(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountForTenant(ctx, tenantID, shared.Filter{})
}

// CountClosedWonDeals counts won deals for the dashboard
func (r *GormDealRepository) CountClosedWonDeals(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.CountByStage(ctx, tenantID, sales.DealStageClosedWon)
}

// OpenPipelineValue sums the value of deals that are not closed
func (r *GormDealRepository) OpenPipelineValue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&models.DealModel{}).
		Select("COALESCE(SUM(value), 0)").
		Where("tenant_id = ? AND stage NOT IN ?", tenantID, []sales.DealStage{sales.DealStageClosedWon, sales.DealStageClosedLost}).
		Row().Scan(&total); err != nil {
		return 0, err
	}
	return total.InexactFloat64(), nil
}

func (r *GormDealRepository) find(query *gorm.DB) ([]sales.Deal, error) {
	var rows []models.DealModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	deals := make([]sales.Deal, len(rows))
	for i := range rows {
		deals[i] = *rows[i].ToDomain()
	}
	return deals, nil
}

func (r *GormDealRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "stage":
			query = query.Where("stage = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		}
	}
	return query
}

// GormFollowupRepository implements sales.FollowupRepository using GORM
type GormFollowupRepository struct {
	db *gorm.DB
}

// NewGormFollowupRepository creates a new GormFollowupRepository
func NewGormFollowupRepository(db *gorm.DB) *GormFollowupRepository {
	return &GormFollowupRepository{db: db}
}

// FindByIDForTenant finds a follow-up by ID within a tenant
func (r *GormFollowupRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Followup, error) {
	var model models.FollowupModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByDeal returns follow-ups for a deal, earliest first
func (r *GormFollowupRepository) FindByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]sales.Followup, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND deal_id = ?", tenantID, dealID).
		Order("scheduled_at ASC"))
}

// FindPending returns incomplete follow-ups, earliest first
func (r *GormFollowupRepository) FindPending(ctx context.Context, tenantID uuid.UUID) ([]sales.Followup, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND completed = ?", tenantID, false).
		Order("scheduled_at ASC"))
}

// FindPendingByUser returns incomplete follow-ups assigned to a user
func (r *GormFollowupRepository) FindPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]sales.Followup, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND assigned_to = ? AND completed = ?", tenantID, userID, false).
		Order("scheduled_at ASC"))
}

// FindDueForReminder returns follow-ups across tenants that are due and not yet reminded
func (r *GormFollowupRepository) FindDueForReminder(ctx context.Context, at time.Time, limit int) ([]sales.Followup, error) {
	query := r.db.WithContext(ctx).
		Where("completed = ? AND reminder_sent_at IS NULL AND scheduled_at <= ?", false, at).
		Order("scheduled_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

// Save creates or updates a follow-up
func (r *GormFollowupRepository) Save(ctx context.Context, followup *sales.Followup) error {
	return r.db.WithContext(ctx).Save(models.FollowupModelFromDomain(followup)).Error
}

// DeleteForTenant deletes a follow-up within a tenant
func (r *GormFollowupRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.FollowupModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormFollowupRepository) find(query *gorm.DB) ([]sales.Followup, error) {
	var rows []models.FollowupModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	followups := make([]sales.Followup, len(rows))
	for i := range rows {
		followups[i] = *rows[i].ToDomain()
	}
	return followups, nil
}

// GormOpportunityRepository implements sales.OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// FindByIDForTenant finds an opportunity by ID within a tenant
func (r *GormOpportunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Opportunity, error) {
	var model models.OpportunityModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists opportunities for a tenant
func (r *GormOpportunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Opportunity, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(applyOrdering(query, filter, OpportunitySortFields), filter)
	return r.find(query)
}

// FindByStatus lists opportunities with a status
func (r *GormOpportunityRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status sales.OpportunityStatus) ([]sales.Opportunity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("created_at DESC"))
}

// FindByCustomer lists opportunities of a customer
func (r *GormOpportunityRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]sales.Opportunity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC"))
}

// FindHighProbability returns opportunities with probability >= min, best first
func (r *GormOpportunityRepository) FindHighProbability(ctx context.Context, tenantID uuid.UUID, min int) ([]sales.Opportunity, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND probability >= ?", tenantID, min).
		Order("probability DESC, amount DESC"))
}

// Save creates or updates an opportunity
func (r *GormOpportunityRepository) Save(ctx context.Context, o *sales.Opportunity) error {
	return r.db.WithContext(ctx).Save(models.OpportunityModelFromDomain(o)).Error
}

// DeleteForTenant deletes an opportunity within a tenant
func (r *GormOpportunityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.OpportunityModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

// CountForTenant counts opportunities matching the filter
func (r *GormOpportunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOpportunityRepository) find(query *gorm.DB) ([]sales.Opportunity, error) {
	var rows []models.OpportunityModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	opportunities := make([]sales.Opportunity, len(rows))
	for i := range rows {
		opportunities[i] = *rows[i].ToDomain()
	}
	return opportunities, nil
}

func (r *GormOpportunityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		}
	}
	return query
}

var (
	_ sales.DealRepository        = (*GormDealRepository)(nil)
	_ sales.FollowupRepository    = (*GormFollowupRepository)(nil)
	_ sales.OpportunityRepository = (*GormOpportunityRepository)(nil)
)
