package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCampaignRepository implements marketing.CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByIDForTenant finds a campaign by ID within a tenant
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.Campaign, error) {
	var model models.CampaignModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists campaigns for a tenant
func (r *GormCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]marketing.Campaign, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CampaignModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(applyOrdering(query, filter, CampaignSortFields), filter)

	var rows []models.CampaignModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	campaigns := make([]marketing.Campaign, len(rows))
	for i := range rows {
		campaigns[i] = *rows[i].ToDomain()
	}
	return campaigns, nil
}

// CountForTenant counts campaigns matching the filter
func (r *GormCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CampaignModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *marketing.Campaign) error {
	return r.db.WithContext(ctx).Save(models.CampaignModelFromDomain(campaign)).Error
}

// DeleteForTenant deletes a campaign within a tenant
func (r *GormCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.CampaignModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormCampaignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

// GormEmailTemplateRepository implements marketing.EmailTemplateRepository using GORM
type GormEmailTemplateRepository struct {
	db *gorm.DB
}

// NewGormEmailTemplateRepository creates a new GormEmailTemplateRepository
func NewGormEmailTemplateRepository(db *gorm.DB) *GormEmailTemplateRepository {
	return &GormEmailTemplateRepository{db: db}
}

// FindByIDForTenant finds a template by ID within a tenant
func (r *GormEmailTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.EmailTemplate, error) {
	var model models.EmailTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActive lists active templates ordered by name
func (r *GormEmailTemplateRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]marketing.EmailTemplate, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("name ASC"))
}

// FindByCategory lists templates of a category ordered by name
func (r *GormEmailTemplateRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]marketing.EmailTemplate, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND category = ?", tenantID, category).
		Order("name ASC"))
}

// Save creates or updates a template
func (r *GormEmailTemplateRepository) Save(ctx context.Context, template *marketing.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(models.EmailTemplateModelFromDomain(template)).Error
}

// DeleteForTenant deletes a template within a tenant
func (r *GormEmailTemplateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.EmailTemplateModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormEmailTemplateRepository) find(query *gorm.DB) ([]marketing.EmailTemplate, error) {
	var rows []models.EmailTemplateModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	templates := make([]marketing.EmailTemplate, len(rows))
	for i := range rows {
		templates[i] = *rows[i].ToDomain()
	}
	return templates, nil
}

// GormSegmentRepository implements marketing.SegmentRepository using GORM
type GormSegmentRepository struct {
	db *gorm.DB
}

// NewGormSegmentRepository creates a new GormSegmentRepository
func NewGormSegmentRepository(db *gorm.DB) *GormSegmentRepository {
	return &GormSegmentRepository{db: db}
}

// FindByIDForTenant finds a segment by ID within a tenant
func (r *GormSegmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*marketing.Segment, error) {
	var model models.SegmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists segments ordered by name
func (r *GormSegmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]marketing.Segment, error) {
	var rows []models.SegmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	segments := make([]marketing.Segment, len(rows))
	for i := range rows {
		segments[i] = *rows[i].ToDomain()
	}
	return segments, nil
}

// Save creates or updates a segment
func (r *GormSegmentRepository) Save(ctx context.Context, segment *marketing.Segment) error {
	return r.db.WithContext(ctx).Save(models.SegmentModelFromDomain(segment)).Error
}

// DeleteForTenant deletes a segment within a tenant
func (r *GormSegmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.SegmentModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

var (
	_ marketing.CampaignRepository      = (*GormCampaignRepository)(nil)
	_ marketing.EmailTemplateRepository = (*GormEmailTemplateRepository)(nil)
	_ marketing.SegmentRepository       = (*GormSegmentRepository)(nil)
)
