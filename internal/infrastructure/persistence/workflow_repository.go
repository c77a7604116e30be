package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/workflow"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkflowRuleRepository implements workflow.RuleRepository using GORM
type GormWorkflowRuleRepository struct {
	db *gorm.DB
}

// NewGormWorkflowRuleRepository creates a new GormWorkflowRuleRepository
func NewGormWorkflowRuleRepository(db *gorm.DB) *GormWorkflowRuleRepository {
	return &GormWorkflowRuleRepository{db: db}
}

// FindByIDForTenant finds a rule by ID within a tenant
func (r *GormWorkflowRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workflow.Rule, error) {
	var model models.WorkflowRuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists rules newest first
func (r *GormWorkflowRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]workflow.Rule, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC"))
}

// FindActive lists active rules highest priority first
func (r *GormWorkflowRuleRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]workflow.Rule, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("priority DESC, created_at ASC"))
}

// FindMatching returns active rules for an entity type and trigger,
// highest priority first and then oldest first
func (r *GormWorkflowRuleRepository) FindMatching(ctx context.Context, tenantID uuid.UUID, entityType workflow.EntityType, trigger workflow.TriggerEvent) ([]workflow.Rule, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND trigger_event = ? AND active = ?", tenantID, entityType, trigger, true).
		Order("priority DESC, created_at ASC"))
}

// Save creates or updates a rule
func (r *GormWorkflowRuleRepository) Save(ctx context.Context, rule *workflow.Rule) error {
	return r.db.WithContext(ctx).Save(models.WorkflowRuleModelFromDomain(rule)).Error
}

// DeleteForTenant deletes a rule within a tenant
func (r *GormWorkflowRuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.WorkflowRuleModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormWorkflowRuleRepository) find(query *gorm.DB) ([]workflow.Rule, error) {
	var rows []models.WorkflowRuleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	rules := make([]workflow.Rule, len(rows))
	for i := range rows {
		rules[i] = *rows[i].ToDomain()
	}
	return rules, nil
}

// GormWorkflowActionRepository implements workflow.ActionRepository using GORM
type GormWorkflowActionRepository struct {
	db *gorm.DB
}

// NewGormWorkflowActionRepository creates a new GormWorkflowActionRepository
func NewGormWorkflowActionRepository(db *gorm.DB) *GormWorkflowActionRepository {
	return &GormWorkflowActionRepository{db: db}
}

// FindAllForTenant lists actions ordered by name
func (r *GormWorkflowActionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]workflow.Action, error) {
	var rows []models.WorkflowActionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	actions := make([]workflow.Action, len(rows))
	for i := range rows {
		actions[i] = *rows[i].ToDomain()
	}
	return actions, nil
}

// Save creates or updates an action
func (r *GormWorkflowActionRepository) Save(ctx context.Context, action *workflow.Action) error {
	return r.db.WithContext(ctx).Save(models.WorkflowActionModelFromDomain(action)).Error
}

// DeleteForTenant deletes an action within a tenant
func (r *GormWorkflowActionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.WorkflowActionModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

// GormWorkflowLogRepository implements workflow.LogRepository using GORM
type GormWorkflowLogRepository struct {
	db *gorm.DB
}

// NewGormWorkflowLogRepository creates a new GormWorkflowLogRepository
func NewGormWorkflowLogRepository(db *gorm.DB) *GormWorkflowLogRepository {
	return &GormWorkflowLogRepository{db: db}
}

// Save appends an execution log
func (r *GormWorkflowLogRepository) Save(ctx context.Context, log *workflow.Log) error {
	return r.db.WithContext(ctx).Save(models.WorkflowLogModelFromDomain(log)).Error
}

// FindRecent returns the newest logs, at most limit
func (r *GormWorkflowLogRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]workflow.Log, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("executed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

// FindByRule returns the logs of a rule newest first
func (r *GormWorkflowLogRepository) FindByRule(ctx context.Context, tenantID, ruleID uuid.UUID) ([]workflow.Log, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND rule_id = ?", tenantID, ruleID).
		Order("executed_at DESC"))
}

// FindByEntity returns the logs for an entity newest first
func (r *GormWorkflowLogRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType workflow.EntityType, entityID string) ([]workflow.Log, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("executed_at DESC"))
}

func (r *GormWorkflowLogRepository) find(query *gorm.DB) ([]workflow.Log, error) {
	var rows []models.WorkflowLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]workflow.Log, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs, nil
}

var (
	_ workflow.RuleRepository   = (*GormWorkflowRuleRepository)(nil)
	_ workflow.ActionRepository = (*GormWorkflowActionRepository)(nil)
	_ workflow.LogRepository    = (*GormWorkflowLogRepository)(nil)
)
